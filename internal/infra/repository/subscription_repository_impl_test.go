package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/repository"
	"github.com/KasumiMercury/primind-dose-core/internal/testutil"
)

func TestSubscriptionRepositorySuccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewSubscriptionRepository(testDB.DB)
	ctx := context.Background()

	testDB.CleanTables(t)

	userID, err := domain.UserIDFromUUID(uuid.New())
	require.NoError(t, err)

	end := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	trialStart := time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC)
	trialEnd := trialStart.Add(7 * 24 * time.Hour)

	require.NoError(t, testDB.DB.Create(&repository.SubscriptionModel{
		ID:               uuid.Must(uuid.NewV7()).String(),
		UserID:           userID.String(),
		Plan:             "family",
		Status:           "active",
		CurrentPeriodEnd: &end,
	}).Error)
	require.NoError(t, testDB.DB.Create(&repository.ProfileModel{
		ID:             userID.String(),
		TrialStartedAt: &trialStart,
		TrialEndsAt:    &trialEnd,
	}).Error)

	sub, err := repo.FindSubscription(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "family", sub.Plan)
	assert.Equal(t, "active", sub.Status)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.True(t, end.Equal(*sub.CurrentPeriodEnd))

	profile, err := repo.FindProfile(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, profile.TrialEndsAt)
	assert.True(t, trialEnd.Equal(*profile.TrialEndsAt))
}

func TestSubscriptionRepositoryNotFoundError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewSubscriptionRepository(testDB.DB)
	ctx := context.Background()

	testDB.CleanTables(t)

	userID, err := domain.UserIDFromUUID(uuid.New())
	require.NoError(t, err)

	_, err = repo.FindSubscription(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)

	_, err = repo.FindProfile(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
