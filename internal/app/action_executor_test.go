package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	cerrors "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-dose-core/internal/app"
	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

type executorIDs struct {
	reminderID   domain.ReminderID
	userID       domain.UserID
	medicationID domain.MedicationID
}

func newExecutorIDs(t *testing.T) executorIDs {
	t.Helper()

	userID, err := domain.UserIDFromString(uuid.NewString())
	require.NoError(t, err)

	return executorIDs{
		reminderID:   domain.ReminderIDFromUUID(uuid.New()),
		userID:       userID,
		medicationID: domain.MedicationIDFromUUID(uuid.New()),
	}
}

func newAction(t *testing.T, ids executorIDs, payload domain.ActionPayload) *domain.QueuedAction {
	t.Helper()

	action, err := domain.NewQueuedAction(ids.reminderID, ids.userID, payload, queueTestNow)
	require.NoError(t, err)

	return action
}

func expectTx(repo *domain.MockReminderRepository) {
	repo.EXPECT().WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(domain.ReminderRepository) error) error {
			return fn(repo)
		})
}

func TestReminderActionExecutorSuccess(t *testing.T) {
	scheduled := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	snoozedUntil := scheduled.Add(15 * time.Minute)
	dosage := "10mg"

	tests := []struct {
		name    string
		payload func(ids executorIDs) domain.ActionPayload
		setup   func(repo *domain.MockReminderRepository, ids executorIDs)
	}{
		{
			name: "mark taken defaults taken at to scheduled time",
			payload: func(ids executorIDs) domain.ActionPayload {
				return domain.MarkTakenPayload{MedicationID: ids.medicationID, ScheduledTime: scheduled}
			},
			setup: func(repo *domain.MockReminderRepository, ids executorIDs) {
				expectTx(repo)
				repo.EXPECT().FindByID(gomock.Any(), ids.reminderID, ids.userID).
					Return(&domain.Reminder{}, nil)
				repo.EXPECT().InsertAdherenceLog(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entry domain.AdherenceEntry) error {
						assert.NotEqual(t, uuid.Nil, entry.ID)

						entry.ID = uuid.Nil
						assert.Equal(t, domain.AdherenceEntry{
							ReminderID:    ids.reminderID,
							UserID:        ids.userID,
							MedicationID:  ids.medicationID,
							ScheduledTime: scheduled,
							TakenAt:       scheduled,
							Status:        domain.AdherenceTaken,
						}, entry)

						return nil
					})
			},
		},
		{
			name: "snooze",
			payload: func(executorIDs) domain.ActionPayload {
				return domain.SnoozePayload{SnoozedUntil: snoozedUntil}
			},
			setup: func(repo *domain.MockReminderRepository, ids executorIDs) {
				repo.EXPECT().SetSnoozedUntil(gomock.Any(), ids.reminderID, ids.userID, snoozedUntil).Return(nil)
			},
		},
		{
			name: "toggle status",
			payload: func(executorIDs) domain.ActionPayload {
				return domain.ToggleStatusPayload{Active: false}
			},
			setup: func(repo *domain.MockReminderRepository, ids executorIDs) {
				repo.EXPECT().SetActive(gomock.Any(), ids.reminderID, ids.userID, false).Return(nil)
			},
		},
		{
			name: "update",
			payload: func(executorIDs) domain.ActionPayload {
				return domain.UpdatePayload{Dosage: &dosage}
			},
			setup: func(repo *domain.MockReminderRepository, ids executorIDs) {
				repo.EXPECT().ApplyUpdate(gomock.Any(), ids.reminderID, ids.userID, domain.UpdatePayload{Dosage: &dosage}).
					Return(nil)
			},
		},
		{
			name: "delete",
			payload: func(executorIDs) domain.ActionPayload {
				return domain.DeletePayload{}
			},
			setup: func(repo *domain.MockReminderRepository, ids executorIDs) {
				repo.EXPECT().Delete(gomock.Any(), ids.reminderID, ids.userID).Return(nil)
			},
		},
		{
			name: "delete of an already deleted reminder",
			payload: func(executorIDs) domain.ActionPayload {
				return domain.DeletePayload{}
			},
			setup: func(repo *domain.MockReminderRepository, ids executorIDs) {
				repo.EXPECT().Delete(gomock.Any(), ids.reminderID, ids.userID).Return(domain.ErrReminderNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := domain.NewMockReminderRepository(ctrl)
			ids := newExecutorIDs(t)

			tt.setup(repo, ids)

			err := app.NewReminderActionExecutor(repo).Execute(context.Background(), newAction(t, ids, tt.payload(ids)))

			assert.NoError(t, err)
		})
	}
}

func TestReminderActionExecutorMarkTakenReplayKeepsLogID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)
	ids := newExecutorIDs(t)
	action := newAction(t, ids, domain.MarkTakenPayload{
		MedicationID:  ids.medicationID,
		ScheduledTime: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	})

	var logIDs []uuid.UUID

	for range 2 {
		expectTx(repo)
		repo.EXPECT().FindByID(gomock.Any(), ids.reminderID, ids.userID).Return(&domain.Reminder{}, nil)
		repo.EXPECT().InsertAdherenceLog(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry domain.AdherenceEntry) error {
				logIDs = append(logIDs, entry.ID)

				return nil
			})
	}

	executor := app.NewReminderActionExecutor(repo)
	require.NoError(t, executor.Execute(context.Background(), action))
	require.NoError(t, executor.Execute(context.Background(), action))

	require.Len(t, logIDs, 2)
	assert.Equal(t, action.ID().UUID(), logIDs[0])
	assert.Equal(t, logIDs[0], logIDs[1])
}

func TestReminderActionExecutorError(t *testing.T) {
	scheduled := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	errTimeout := errors.New("i/o timeout")

	tests := []struct {
		name         string
		payload      func(ids executorIDs) domain.ActionPayload
		setup        func(repo *domain.MockReminderRepository, ids executorIDs)
		expectedErr  error
		nonRetryable bool
	}{
		{
			name: "mark taken on a missing reminder",
			payload: func(ids executorIDs) domain.ActionPayload {
				return domain.MarkTakenPayload{MedicationID: ids.medicationID, ScheduledTime: scheduled}
			},
			setup: func(repo *domain.MockReminderRepository, ids executorIDs) {
				expectTx(repo)
				repo.EXPECT().FindByID(gomock.Any(), ids.reminderID, ids.userID).
					Return(nil, domain.ErrReminderNotFound)
			},
			expectedErr:  domain.ErrReminderNotFound,
			nonRetryable: true,
		},
		{
			name: "mark taken insert timeout",
			payload: func(ids executorIDs) domain.ActionPayload {
				return domain.MarkTakenPayload{MedicationID: ids.medicationID, ScheduledTime: scheduled}
			},
			setup: func(repo *domain.MockReminderRepository, ids executorIDs) {
				expectTx(repo)
				repo.EXPECT().FindByID(gomock.Any(), ids.reminderID, ids.userID).
					Return(&domain.Reminder{}, nil)
				repo.EXPECT().InsertAdherenceLog(gomock.Any(), gomock.Any()).Return(errTimeout)
			},
			expectedErr: errTimeout,
		},
		{
			name: "snooze on a missing reminder",
			payload: func(executorIDs) domain.ActionPayload {
				return domain.SnoozePayload{SnoozedUntil: scheduled}
			},
			setup: func(repo *domain.MockReminderRepository, ids executorIDs) {
				repo.EXPECT().SetSnoozedUntil(gomock.Any(), ids.reminderID, ids.userID, scheduled).
					Return(domain.ErrReminderNotFound)
			},
			expectedErr:  domain.ErrReminderNotFound,
			nonRetryable: true,
		},
		{
			name: "toggle timeout stays retryable",
			payload: func(executorIDs) domain.ActionPayload {
				return domain.ToggleStatusPayload{Active: true}
			},
			setup: func(repo *domain.MockReminderRepository, ids executorIDs) {
				repo.EXPECT().SetActive(gomock.Any(), ids.reminderID, ids.userID, true).Return(errTimeout)
			},
			expectedErr: errTimeout,
		},
		{
			name: "update after delete",
			payload: func(executorIDs) domain.ActionPayload {
				notes := "with food"

				return domain.UpdatePayload{Notes: &notes}
			},
			setup: func(repo *domain.MockReminderRepository, ids executorIDs) {
				repo.EXPECT().ApplyUpdate(gomock.Any(), ids.reminderID, ids.userID, gomock.Any()).
					Return(domain.ErrReminderNotFound)
			},
			expectedErr:  domain.ErrReminderNotFound,
			nonRetryable: true,
		},
		{
			name: "delete timeout",
			payload: func(executorIDs) domain.ActionPayload {
				return domain.DeletePayload{}
			},
			setup: func(repo *domain.MockReminderRepository, ids executorIDs) {
				repo.EXPECT().Delete(gomock.Any(), ids.reminderID, ids.userID).Return(errTimeout)
			},
			expectedErr: errTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := domain.NewMockReminderRepository(ctrl)
			ids := newExecutorIDs(t)

			tt.setup(repo, ids)

			err := app.NewReminderActionExecutor(repo).Execute(context.Background(), newAction(t, ids, tt.payload(ids)))

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.nonRetryable, cerrors.Is(err, domain.ErrNonRetryable))
		})
	}
}
