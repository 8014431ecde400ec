package domain

import "errors"

var (
	ErrReminderNotFound = errors.New("reminder not found")
	ErrActionNotFound   = errors.New("queued action not found")
	ErrProfileNotFound  = errors.New("profile not found")

	ErrSubscriptionNotFound = errors.New("subscription not found")

	ErrInvalidActionType  = errors.New("invalid action type")
	ErrInvalidActionID    = errors.New("invalid action ID")
	ErrInvalidPayload     = errors.New("invalid action payload")
	ErrEmptyUpdatePayload = errors.New("update payload must set at least one field")

	ErrInvalidTimeOfDay = errors.New("invalid time of day: expected HH:MM")
	ErrInvalidWeekday   = errors.New("invalid weekday: expected 1 (Monday) to 7 (Sunday)")
	ErrInvalidTimezone  = errors.New("invalid timezone")
	ErrInvalidFrequency = errors.New("invalid dose frequency")

	// ErrNonRetryable marks replay failures that will never succeed on retry.
	ErrNonRetryable = errors.New("non-retryable action failure")
)
