package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func validIDs(t *testing.T) (domain.ReminderID, domain.UserID) {
	t.Helper()

	userID, err := domain.UserIDFromUUID(uuid.New())
	require.NoError(t, err)

	return domain.ReminderIDFromUUID(uuid.New()), userID
}

func TestNewQueuedActionSuccess(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		payload      domain.ActionPayload
		expectedType domain.ActionType
	}{
		{
			name: "mark taken",
			payload: domain.MarkTakenPayload{
				MedicationID:  domain.MedicationIDFromUUID(uuid.New()),
				ScheduledTime: now,
				TakenAt:       now.Add(5 * time.Minute),
			},
			expectedType: domain.ActionMarkTaken,
		},
		{
			name:         "snooze",
			payload:      domain.SnoozePayload{SnoozedUntil: now.Add(15 * time.Minute)},
			expectedType: domain.ActionSnooze,
		},
		{
			name:         "toggle status",
			payload:      domain.ToggleStatusPayload{Active: false},
			expectedType: domain.ActionToggleStatus,
		},
		{
			name:         "delete",
			payload:      domain.DeletePayload{},
			expectedType: domain.ActionDelete,
		},
		{
			name: "update with every field",
			payload: domain.UpdatePayload{
				TimeOfDay:  ptr("21:30"),
				DaysOfWeek: ptr([]int{1, 2, 3}),
				Timezone:   ptr("Europe/Berlin"),
				Dosage:     ptr("2 tablets"),
				Notes:      ptr("with food"),
			},
			expectedType: domain.ActionUpdate,
		},
		{
			name:         "update with notes only",
			payload:      domain.UpdatePayload{Notes: ptr("")},
			expectedType: domain.ActionUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reminderID, userID := validIDs(t)

			action, err := domain.NewQueuedAction(reminderID, userID, tt.payload, now)

			require.NoError(t, err)
			assert.False(t, action.ID().IsZero())
			assert.Equal(t, tt.expectedType, action.Type())
			assert.Equal(t, tt.payload, action.Payload())
			assert.True(t, reminderID.Equals(action.ReminderID()))
			assert.True(t, userID.Equals(action.UserID()))
			assert.Equal(t, now, action.Timestamp())
			assert.Equal(t, domain.ActionStatusPending, action.Status())
			assert.Zero(t, action.Attempts())
		})
	}
}

func TestNewQueuedActionError(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	reminderID, userID := validIDs(t)

	tests := []struct {
		name        string
		reminderID  domain.ReminderID
		userID      domain.UserID
		payload     domain.ActionPayload
		expectedErr error
	}{
		{
			name:        "nil payload",
			reminderID:  reminderID,
			userID:      userID,
			payload:     nil,
			expectedErr: domain.ErrInvalidPayload,
		},
		{
			name:        "zero reminder id",
			reminderID:  domain.ReminderID{},
			userID:      userID,
			payload:     domain.DeletePayload{},
			expectedErr: domain.ErrInvalidReminderID,
		},
		{
			name:        "zero user id",
			reminderID:  reminderID,
			userID:      domain.UserID{},
			payload:     domain.DeletePayload{},
			expectedErr: domain.ErrInvalidUserID,
		},
		{
			name:        "mark taken without medication",
			reminderID:  reminderID,
			userID:      userID,
			payload:     domain.MarkTakenPayload{ScheduledTime: now},
			expectedErr: domain.ErrInvalidPayload,
		},
		{
			name:        "mark taken without scheduled time",
			reminderID:  reminderID,
			userID:      userID,
			payload:     domain.MarkTakenPayload{MedicationID: domain.MedicationIDFromUUID(uuid.New())},
			expectedErr: domain.ErrInvalidPayload,
		},
		{
			name:        "snooze without instant",
			reminderID:  reminderID,
			userID:      userID,
			payload:     domain.SnoozePayload{},
			expectedErr: domain.ErrInvalidPayload,
		},
		{
			name:        "empty update",
			reminderID:  reminderID,
			userID:      userID,
			payload:     domain.UpdatePayload{},
			expectedErr: domain.ErrEmptyUpdatePayload,
		},
		{
			name:        "update with malformed time",
			reminderID:  reminderID,
			userID:      userID,
			payload:     domain.UpdatePayload{TimeOfDay: ptr("25:00")},
			expectedErr: domain.ErrInvalidTimeOfDay,
		},
		{
			name:        "update with signed time",
			reminderID:  reminderID,
			userID:      userID,
			payload:     domain.UpdatePayload{TimeOfDay: ptr("+1:+5")},
			expectedErr: domain.ErrInvalidTimeOfDay,
		},
		{
			name:        "update with weekday out of range",
			reminderID:  reminderID,
			userID:      userID,
			payload:     domain.UpdatePayload{DaysOfWeek: ptr([]int{0, 1})},
			expectedErr: domain.ErrInvalidWeekday,
		},
		{
			name:        "update with unknown timezone",
			reminderID:  reminderID,
			userID:      userID,
			payload:     domain.UpdatePayload{Timezone: ptr("Mars/Olympus_Mons")},
			expectedErr: domain.ErrInvalidTimezone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := domain.NewQueuedAction(tt.reminderID, tt.userID, tt.payload, now)

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, action)
		})
	}
}

func TestQueuedActionLifecycleSuccess(t *testing.T) {
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	reminderID, userID := validIDs(t)

	action, err := domain.NewQueuedAction(reminderID, userID, domain.DeletePayload{}, created)
	require.NoError(t, err)

	failedAt := created.Add(2 * time.Second)
	action.RecordFailure(errors.New("connection refused"), failedAt)
	action.RecordFailure(errors.New("connection reset"), failedAt.Add(2*time.Second))

	assert.Equal(t, 2, action.Attempts())
	assert.Equal(t, "connection reset", action.LastError())
	assert.Equal(t, failedAt.Add(2*time.Second), action.LastAttemptAt())
	assert.Equal(t, 4*time.Second, action.Age(failedAt.Add(2*time.Second)))

	action.MarkNeedsResolution()
	assert.True(t, action.NeedsResolution())
	assert.Equal(t, domain.ActionStatusNeedsResolution, action.Status())

	action.ResetForRetry()
	assert.False(t, action.NeedsResolution())
	assert.Zero(t, action.Attempts())
	assert.Empty(t, action.LastError())
}

func TestReconstituteQueuedActionSuccess(t *testing.T) {
	reminderID, userID := validIDs(t)
	id := domain.NewActionID()
	ts := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	action := domain.ReconstituteQueuedAction(
		id, reminderID, userID, domain.ToggleStatusPayload{Active: true}, ts, 3, "timeout", ts.Add(time.Minute), "",
	)

	assert.True(t, id.Equals(action.ID()))
	assert.Equal(t, domain.ActionToggleStatus, action.Type())
	assert.Equal(t, 3, action.Attempts())
	assert.Equal(t, "timeout", action.LastError())
	assert.Equal(t, domain.ActionStatusPending, action.Status())
}
