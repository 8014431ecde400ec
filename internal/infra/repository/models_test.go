package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/repository"
)

func TestDaysOfWeekJSONBScanSuccess(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected repository.DaysOfWeekJSONB
	}{
		{
			name:     "bytes",
			value:    []byte("[1,3,5]"),
			expected: repository.DaysOfWeekJSONB{1, 3, 5},
		},
		{
			name:     "string",
			value:    "[7]",
			expected: repository.DaysOfWeekJSONB{7},
		},
		{
			name:     "empty array",
			value:    []byte("[]"),
			expected: repository.DaysOfWeekJSONB{},
		},
		{
			name:     "null",
			value:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d repository.DaysOfWeekJSONB

			err := d.Scan(tt.value)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestDaysOfWeekJSONBScanError(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{
			name:  "unsupported type",
			value: 42,
		},
		{
			name:  "malformed json",
			value: []byte("[1,"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d repository.DaysOfWeekJSONB

			assert.Error(t, d.Scan(tt.value))
		})
	}
}

func TestDaysOfWeekJSONBValue(t *testing.T) {
	v, err := repository.DaysOfWeekJSONB{1, 2}.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[1,2]"), v)

	v, err = repository.DaysOfWeekJSONB(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestReminderModelToEntitySuccess(t *testing.T) {
	snoozed := time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)
	m := repository.ReminderModel{
		ID:           uuid.Must(uuid.NewV7()).String(),
		UserID:       uuid.Must(uuid.NewV7()).String(),
		MedicationID: uuid.Must(uuid.NewV7()).String(),
		TimeOfDay:    "09:00:00",
		DaysOfWeek:   repository.DaysOfWeekJSONB{1, 3},
		Timezone:     "Asia/Tokyo",
		Dosage:       "10mg",
		Notes:        "with food",
		IsActive:     true,
		SnoozedUntil: &snoozed,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	r, err := m.ToEntity()

	require.NoError(t, err)
	assert.Equal(t, m.ID, r.ID().String())
	assert.Equal(t, m.UserID, r.UserID().String())
	assert.Equal(t, m.MedicationID, r.MedicationID().String())
	assert.Equal(t, []int{1, 3}, r.DaysOfWeek())
	assert.Equal(t, "Asia/Tokyo", r.Timezone())
	assert.True(t, r.IsActive())
	assert.Equal(t, &snoozed, r.SnoozedUntil())

	schedule, err := r.Schedule()
	require.NoError(t, err)
	assert.Equal(t, "09:00", schedule.TimeOfDay().String())
}

func TestReminderModelToEntityError(t *testing.T) {
	valid := uuid.Must(uuid.NewV7()).String()

	tests := []struct {
		name  string
		model repository.ReminderModel
	}{
		{
			name:  "invalid reminder id",
			model: repository.ReminderModel{ID: "nope", UserID: valid, MedicationID: valid},
		},
		{
			name:  "invalid user id",
			model: repository.ReminderModel{ID: valid, UserID: "nope", MedicationID: valid},
		},
		{
			name:  "invalid medication id",
			model: repository.ReminderModel{ID: valid, UserID: valid, MedicationID: "nope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.model.ToEntity()

			assert.Error(t, err)
		})
	}
}

func TestAdherenceLogFromEntry(t *testing.T) {
	reminderID := domain.ReminderIDFromUUID(uuid.Must(uuid.NewV7()))
	userID, err := domain.UserIDFromUUID(uuid.Must(uuid.NewV7()))
	require.NoError(t, err)
	medicationID := domain.MedicationIDFromUUID(uuid.Must(uuid.NewV7()))
	scheduled := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	m := repository.AdherenceLogFromEntry("log-id", domain.AdherenceEntry{
		ReminderID:    reminderID,
		UserID:        userID,
		MedicationID:  medicationID,
		ScheduledTime: scheduled,
		TakenAt:       scheduled.Add(5 * time.Minute),
		Status:        domain.AdherenceTaken,
	})

	assert.Equal(t, "log-id", m.ID)
	assert.Equal(t, reminderID.String(), m.ReminderID)
	assert.Equal(t, userID.String(), m.UserID)
	assert.Equal(t, medicationID.String(), m.MedicationID)
	assert.Equal(t, scheduled, m.ScheduledTime)
	assert.Equal(t, "taken", m.Status)
}

func TestSubscriptionAndProfileModelToEntity(t *testing.T) {
	userID := uuid.Must(uuid.NewV7()).String()
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	sub, err := (&repository.SubscriptionModel{
		ID:               uuid.Must(uuid.NewV7()).String(),
		UserID:           userID,
		Plan:             "premium",
		Status:           "active",
		CurrentPeriodEnd: &end,
	}).ToEntity()
	require.NoError(t, err)
	assert.Equal(t, userID, sub.UserID.String())
	assert.Equal(t, "premium", sub.Plan)
	assert.Equal(t, "active", sub.Status)

	profile, err := (&repository.ProfileModel{ID: userID, TrialEndsAt: &end}).ToEntity()
	require.NoError(t, err)
	assert.Equal(t, userID, profile.UserID.String())
	assert.Nil(t, profile.TrialStartedAt)
	assert.Equal(t, &end, profile.TrialEndsAt)

	_, err = (&repository.ProfileModel{ID: "nope"}).ToEntity()
	assert.Error(t, err)
}
