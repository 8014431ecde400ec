package app

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

//go:generate mockgen -source=action_executor.go -destination=action_executor_mock.go -package=app

// ActionExecutor replays one queued action against the backend. Errors marked with
// domain.ErrNonRetryable will never succeed on a later attempt.
type ActionExecutor interface {
	Execute(ctx context.Context, action *domain.QueuedAction) error
}

type reminderActionExecutor struct {
	repo domain.ReminderRepository
}

func NewReminderActionExecutor(repo domain.ReminderRepository) ActionExecutor {
	return &reminderActionExecutor{repo: repo}
}

func (e *reminderActionExecutor) Execute(ctx context.Context, action *domain.QueuedAction) error {
	slog.Debug("executing queued action",
		"action_id", action.ID().String(),
		"action_type", string(action.Type()),
		"reminder_id", action.ReminderID().String(),
	)

	reminderID := action.ReminderID()
	userID := action.UserID()

	switch p := action.Payload().(type) {
	case domain.MarkTakenPayload:
		return e.markTaken(ctx, action.ID(), reminderID, userID, p)
	case domain.SnoozePayload:
		return notFoundIsPermanent(e.repo.SetSnoozedUntil(ctx, reminderID, userID, p.SnoozedUntil))
	case domain.ToggleStatusPayload:
		return notFoundIsPermanent(e.repo.SetActive(ctx, reminderID, userID, p.Active))
	case domain.DeletePayload:
		err := e.repo.Delete(ctx, reminderID, userID)
		if errors.Is(err, domain.ErrReminderNotFound) {
			slog.Info("reminder already deleted (idempotency)",
				"reminder_id", reminderID.String(),
			)

			return nil
		}

		return err
	case domain.UpdatePayload:
		if err := p.Validate(); err != nil {
			return errors.Mark(err, domain.ErrNonRetryable)
		}

		return notFoundIsPermanent(e.repo.ApplyUpdate(ctx, reminderID, userID, p))
	default:
		return errors.Mark(
			errors.Wrapf(domain.ErrInvalidActionType, "unsupported payload %T", p),
			domain.ErrNonRetryable,
		)
	}
}

func (e *reminderActionExecutor) markTaken(
	ctx context.Context,
	actionID domain.ActionID,
	reminderID domain.ReminderID,
	userID domain.UserID,
	p domain.MarkTakenPayload,
) error {
	takenAt := p.TakenAt
	if takenAt.IsZero() {
		takenAt = p.ScheduledTime
	}

	return e.repo.WithTx(ctx, func(repo domain.ReminderRepository) error {
		if _, err := repo.FindByID(ctx, reminderID, userID); err != nil {
			return notFoundIsPermanent(err)
		}

		// Keyed by the action id so a replay after a lost queue save is a no-op.
		return repo.InsertAdherenceLog(ctx, domain.AdherenceEntry{
			ID:            actionID.UUID(),
			ReminderID:    reminderID,
			UserID:        userID,
			MedicationID:  p.MedicationID,
			ScheduledTime: p.ScheduledTime,
			TakenAt:       takenAt,
			Status:        domain.AdherenceTaken,
		})
	})
}

// notFoundIsPermanent marks writes against a reminder that no longer exists.
func notFoundIsPermanent(err error) error {
	if errors.Is(err, domain.ErrReminderNotFound) {
		return errors.Mark(err, domain.ErrNonRetryable)
	}

	return err
}
