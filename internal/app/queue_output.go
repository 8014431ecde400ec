package app

import (
	"time"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

type QueueActionOutput struct {
	ActionID  string
	QueueSize int
}

type QueuedActionOutput struct {
	ID            string
	Type          string
	ReminderID    string
	UserID        string
	Timestamp     time.Time
	Attempts      int
	LastError     string
	LastAttemptAt time.Time
	Status        string
}

func FromQueuedAction(a *domain.QueuedAction) QueuedActionOutput {
	return QueuedActionOutput{
		ID:            a.ID().String(),
		Type:          string(a.Type()),
		ReminderID:    a.ReminderID().String(),
		UserID:        a.UserID().String(),
		Timestamp:     a.Timestamp(),
		Attempts:      a.Attempts(),
		LastError:     a.LastError(),
		LastAttemptAt: a.LastAttemptAt(),
		Status:        string(a.Status()),
	}
}

func FromQueuedActions(actions []*domain.QueuedAction) []QueuedActionOutput {
	outputs := make([]QueuedActionOutput, 0, len(actions))
	for _, a := range actions {
		outputs = append(outputs, FromQueuedAction(a))
	}

	return outputs
}

type QueueStats struct {
	Pending         int
	NeedsResolution int
	Draining        bool
}

type SkipReason string

const (
	SkipNone      SkipReason = ""
	SkipOffline   SkipReason = "offline"
	SkipDraining  SkipReason = "already_draining"
	SkipLoadError SkipReason = "load_error"
)

// ProcessResult summarises one drain pass. Remaining counts every pending action after the
// pass, including actions queued while it ran.
type ProcessResult struct {
	Skipped      bool
	SkipReason   SkipReason
	Attempted    int
	Succeeded    int
	Retained     int
	DeadLettered int
	Remaining    int
}
