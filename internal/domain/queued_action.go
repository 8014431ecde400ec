package domain

import (
	"fmt"
	"time"
)

type QueuedAction struct {
	id            ActionID
	actionType    ActionType
	reminderID    ReminderID
	userID        UserID
	payload       ActionPayload
	timestamp     time.Time
	attempts      int
	lastError     string
	lastAttemptAt time.Time
	status        ActionStatus
}

// NewQueuedAction derives the action type from the payload variant.
func NewQueuedAction(
	reminderID ReminderID,
	userID UserID,
	payload ActionPayload,
	now time.Time,
) (*QueuedAction, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: payload is required", ErrInvalidPayload)
	}

	if reminderID.IsZero() {
		return nil, ErrInvalidReminderID
	}

	if userID.IsZero() {
		return nil, ErrInvalidUserID
	}

	if err := payload.Validate(); err != nil {
		return nil, err
	}

	return &QueuedAction{
		id:         NewActionID(),
		actionType: payload.Type(),
		reminderID: reminderID,
		userID:     userID,
		payload:    payload,
		timestamp:  now,
		status:     ActionStatusPending,
	}, nil
}

func ReconstituteQueuedAction(
	id ActionID,
	reminderID ReminderID,
	userID UserID,
	payload ActionPayload,
	timestamp time.Time,
	attempts int,
	lastError string,
	lastAttemptAt time.Time,
	status ActionStatus,
) *QueuedAction {
	if status == "" {
		status = ActionStatusPending
	}

	return &QueuedAction{
		id:            id,
		actionType:    payload.Type(),
		reminderID:    reminderID,
		userID:        userID,
		payload:       payload,
		timestamp:     timestamp,
		attempts:      attempts,
		lastError:     lastError,
		lastAttemptAt: lastAttemptAt,
		status:        status,
	}
}

func (a *QueuedAction) RecordFailure(err error, at time.Time) {
	a.attempts++
	a.lastAttemptAt = at

	if err != nil {
		a.lastError = err.Error()
	}
}

func (a *QueuedAction) MarkNeedsResolution() {
	a.status = ActionStatusNeedsResolution
}

// ResetForRetry puts a dead-lettered action back into the pending state with a fresh attempt budget.
func (a *QueuedAction) ResetForRetry() {
	a.status = ActionStatusPending
	a.attempts = 0
	a.lastError = ""
}

func (a *QueuedAction) Age(now time.Time) time.Duration {
	return now.Sub(a.timestamp)
}

func (a *QueuedAction) NeedsResolution() bool {
	return a.status == ActionStatusNeedsResolution
}

func (a *QueuedAction) ID() ActionID {
	return a.id
}

func (a *QueuedAction) Type() ActionType {
	return a.actionType
}

func (a *QueuedAction) ReminderID() ReminderID {
	return a.reminderID
}

func (a *QueuedAction) UserID() UserID {
	return a.userID
}

func (a *QueuedAction) Payload() ActionPayload {
	return a.payload
}

func (a *QueuedAction) Timestamp() time.Time {
	return a.timestamp
}

func (a *QueuedAction) Attempts() int {
	return a.attempts
}

func (a *QueuedAction) LastError() string {
	return a.lastError
}

func (a *QueuedAction) LastAttemptAt() time.Time {
	return a.lastAttemptAt
}

func (a *QueuedAction) Status() ActionStatus {
	return a.status
}
