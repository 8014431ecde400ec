package repository

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

type subscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) domain.SubscriptionRepository {
	return &subscriptionRepositoryImpl{
		db: db,
	}
}

func (r *subscriptionRepositoryImpl) FindSubscription(ctx context.Context, userID domain.UserID) (*domain.SubscriptionRecord, error) {
	slog.Debug("finding subscription",
		"user_id", userID.String(),
	)

	var m SubscriptionModel

	result := r.db.WithContext(ctx).Where("user_id = ?", userID.String()).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}

		slog.Error("failed to find subscription",
			"user_id", userID.String(),
			"error", result.Error,
		)

		return nil, result.Error
	}

	return m.ToEntity()
}

func (r *subscriptionRepositoryImpl) FindProfile(ctx context.Context, userID domain.UserID) (*domain.Profile, error) {
	slog.Debug("finding profile",
		"user_id", userID.String(),
	)

	var m ProfileModel

	result := r.db.WithContext(ctx).Where("id = ?", userID.String()).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}

		slog.Error("failed to find profile",
			"user_id", userID.String(),
			"error", result.Error,
		)

		return nil, result.Error
	}

	return m.ToEntity()
}
