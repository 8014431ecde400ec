package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

type reminderRepositoryImpl struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) domain.ReminderRepository {
	return &reminderRepositoryImpl{
		db: db,
	}
}

func (r *reminderRepositoryImpl) scoped(ctx context.Context, id domain.ReminderID, userID domain.UserID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&ReminderModel{}).
		Where("id = ? AND user_id = ?", id.String(), userID.String())
}

func (r *reminderRepositoryImpl) FindByID(ctx context.Context, id domain.ReminderID, userID domain.UserID) (*domain.Reminder, error) {
	slog.Debug("finding reminder by ID",
		"reminder_id", id.String(),
		"user_id", userID.String(),
	)

	var m ReminderModel

	result := r.scoped(ctx, id, userID).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Debug("reminder not found",
				"reminder_id", id.String(),
			)

			return nil, domain.ErrReminderNotFound
		}

		slog.Error("failed to find reminder by ID",
			"reminder_id", id.String(),
			"error", result.Error,
		)

		return nil, result.Error
	}

	return m.ToEntity()
}

func (r *reminderRepositoryImpl) InsertAdherenceLog(ctx context.Context, entry domain.AdherenceEntry) error {
	slog.Debug("inserting adherence log entry",
		"reminder_id", entry.ReminderID.String(),
		"status", string(entry.Status),
	)

	id := entry.ID
	if id == uuid.Nil {
		var err error

		id, err = uuid.NewV7()
		if err != nil {
			return err
		}
	}

	m := AdherenceLogFromEntry(id.String(), entry)

	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(m)
	if result.Error != nil {
		slog.Error("failed to insert adherence log entry",
			"reminder_id", entry.ReminderID.String(),
			"error", result.Error,
		)

		return classifyPgError(result.Error)
	}

	if result.RowsAffected == 0 {
		slog.Info("adherence log entry already recorded (idempotency)",
			"reminder_id", entry.ReminderID.String(),
			"log_id", id.String(),
		)
	}

	return nil
}

func (r *reminderRepositoryImpl) SetSnoozedUntil(ctx context.Context, id domain.ReminderID, userID domain.UserID, until time.Time) error {
	return r.update(ctx, "snooze", id, userID, map[string]interface{}{
		"snoozed_until": until,
	})
}

func (r *reminderRepositoryImpl) SetActive(ctx context.Context, id domain.ReminderID, userID domain.UserID, active bool) error {
	return r.update(ctx, "toggle status", id, userID, map[string]interface{}{
		"is_active": active,
	})
}

func (r *reminderRepositoryImpl) ApplyUpdate(ctx context.Context, id domain.ReminderID, userID domain.UserID, update domain.UpdatePayload) error {
	values := make(map[string]interface{}, 5)

	if update.TimeOfDay != nil {
		tod, err := domain.ParseTimeOfDay(*update.TimeOfDay)
		if err != nil {
			return errors.Mark(err, domain.ErrNonRetryable)
		}

		values["time_of_day"] = tod.String()
	}

	if update.DaysOfWeek != nil {
		values["days_of_week"] = DaysOfWeekJSONB(*update.DaysOfWeek)
	}

	if update.Timezone != nil {
		values["timezone"] = *update.Timezone
	}

	if update.Dosage != nil {
		values["dosage"] = *update.Dosage
	}

	if update.Notes != nil {
		values["notes"] = *update.Notes
	}

	if len(values) == 0 {
		return domain.ErrEmptyUpdatePayload
	}

	return r.update(ctx, "update", id, userID, values)
}

func (r *reminderRepositoryImpl) update(
	ctx context.Context,
	op string,
	id domain.ReminderID,
	userID domain.UserID,
	values map[string]interface{},
) error {
	slog.Debug("updating reminder in database",
		"op", op,
		"reminder_id", id.String(),
	)

	values["updated_at"] = time.Now().UTC()

	result := r.scoped(ctx, id, userID).Updates(values)
	if result.Error != nil {
		slog.Error("failed to update reminder in database",
			"op", op,
			"reminder_id", id.String(),
			"error", result.Error,
		)

		return classifyPgError(result.Error)
	}

	if result.RowsAffected == 0 {
		slog.Debug("reminder not found for update",
			"op", op,
			"reminder_id", id.String(),
		)

		return domain.ErrReminderNotFound
	}

	return nil
}

func (r *reminderRepositoryImpl) Delete(ctx context.Context, id domain.ReminderID, userID domain.UserID) error {
	slog.Debug("deleting reminder from database",
		"reminder_id", id.String(),
	)

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id.String(), userID.String()).
		Delete(&ReminderModel{})
	if result.Error != nil {
		slog.Error("failed to delete reminder from database",
			"reminder_id", id.String(),
			"error", result.Error,
		)

		return classifyPgError(result.Error)
	}

	if result.RowsAffected == 0 {
		slog.Debug("reminder not found for deletion",
			"reminder_id", id.String(),
		)

		return domain.ErrReminderNotFound
	}

	slog.Debug("reminder deleted from database",
		"reminder_id", id.String(),
	)

	return nil
}

func (r *reminderRepositoryImpl) WithTx(ctx context.Context, fn func(repo domain.ReminderRepository) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		slog.Error("failed to begin transaction",
			"error", tx.Error,
		)

		return tx.Error
	}

	txRepo := &reminderRepositoryImpl{db: tx}

	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			slog.Error("failed to rollback transaction",
				"error", rbErr,
				"original_error", err,
			)
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		slog.Error("failed to commit transaction",
			"error", err,
		)

		return err
	}

	return nil
}
