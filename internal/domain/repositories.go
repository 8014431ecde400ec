package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=repositories.go -destination=repositories_mock.go -package=domain

// ReminderRepository scopes every write by reminder id and user id.
type ReminderRepository interface {
	FindByID(ctx context.Context, id ReminderID, userID UserID) (*Reminder, error)
	InsertAdherenceLog(ctx context.Context, entry AdherenceEntry) error
	SetSnoozedUntil(ctx context.Context, id ReminderID, userID UserID, until time.Time) error
	SetActive(ctx context.Context, id ReminderID, userID UserID, active bool) error
	ApplyUpdate(ctx context.Context, id ReminderID, userID UserID, update UpdatePayload) error
	Delete(ctx context.Context, id ReminderID, userID UserID) error
	WithTx(ctx context.Context, fn func(repo ReminderRepository) error) error
}

type SubscriptionRepository interface {
	FindSubscription(ctx context.Context, userID UserID) (*SubscriptionRecord, error)
	FindProfile(ctx context.Context, userID UserID) (*Profile, error)
}

// ActionQueueStore persists an ordered list of queued actions.
type ActionQueueStore interface {
	Load(ctx context.Context) ([]*QueuedAction, error)
	Save(ctx context.Context, actions []*QueuedAction) error
	Clear(ctx context.Context) error
}

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

const (
	TableSubscriptions = "subscriptions"
	TableProfiles      = "profiles"
)

// ChangeEvent is a realtime row-change notification from the backend.
type ChangeEvent struct {
	Table    string
	Type     ChangeType
	UserID   UserID
	RecordID string
}

// AffectsEntitlements reports whether the change can alter a user's entitlements.
func (e ChangeEvent) AffectsEntitlements() bool {
	return e.Table == TableSubscriptions || e.Table == TableProfiles
}
