package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/pubsub"
	"github.com/KasumiMercury/primind-dose-core/internal/pkg/clock"
)

const (
	DefaultQueueRetryDelay  = 2 * time.Second
	DefaultQueueMaxAttempts = 10
	DefaultQueueMaxAge      = 7 * 24 * time.Hour
)

// Connectivity is the platform's online signal. Subscribe listeners fire on transitions only.
type Connectivity interface {
	Online() bool
	Subscribe(fn func(online bool)) (unsubscribe func())
}

// QueueService is the surface the UI drives; OfflineQueue implements it.
type QueueService interface {
	QueueAction(ctx context.Context, input QueueActionInput) (QueueActionOutput, error)
	ProcessQueue(ctx context.Context) ProcessResult
	QueueSize(ctx context.Context) int
	ClearQueue(ctx context.Context) error
	DeadLetters(ctx context.Context) ([]QueuedActionOutput, error)
	RetryDeadLetter(ctx context.Context, input DeadLetterInput) error
	DiscardDeadLetter(ctx context.Context, input DeadLetterInput) error
	Stats(ctx context.Context) QueueStats
	OnChange(fn func(QueueStats)) (unsubscribe func())
}

var _ QueueService = (*OfflineQueue)(nil)

type ReplayOutcome string

const (
	ReplaySucceeded    ReplayOutcome = "succeeded"
	ReplayRetained     ReplayOutcome = "retained"
	ReplayDeadLettered ReplayOutcome = "dead_lettered"
)

// ReplayRecorder receives one call per executed action.
type ReplayRecorder interface {
	RecordReplay(ctx context.Context, actionType string, outcome string)
}

type QueueConfig struct {
	RetryDelay  time.Duration
	MaxAttempts int
	// MaxAge of 0 disables the age limit.
	MaxAge time.Duration
}

type QueueOption func(*OfflineQueue)

func WithReplayRecorder(r ReplayRecorder) QueueOption {
	return func(q *OfflineQueue) {
		q.recorder = r
	}
}

// OfflineQueue persists reminder mutations and replays them in FIFO order while the device is
// online. The persisted pending list is the source of truth; draining state lives only in memory.
type OfflineQueue struct {
	pending      domain.ActionQueueStore
	deadLetters  domain.ActionQueueStore
	executor     ActionExecutor
	connectivity Connectivity
	publisher    pubsub.Publisher
	clock        clock.Clock
	cfg          QueueConfig
	recorder     ReplayRecorder

	// storeMu serialises read-modify-write cycles on both stores.
	storeMu  sync.Mutex
	draining atomic.Bool

	runCtx    context.Context
	cancelRun context.CancelFunc

	timerMu     sync.Mutex
	retryTimer  *time.Timer
	closed      bool
	unsubscribe func()

	observersMu    sync.RWMutex
	observers      map[int]func(QueueStats)
	nextObserverID int
}

func NewOfflineQueue(
	pending domain.ActionQueueStore,
	deadLetters domain.ActionQueueStore,
	executor ActionExecutor,
	connectivity Connectivity,
	publisher pubsub.Publisher,
	clk clock.Clock,
	cfg QueueConfig,
	opts ...QueueOption,
) *OfflineQueue {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultQueueRetryDelay
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultQueueMaxAttempts
	}

	runCtx, cancel := context.WithCancel(context.Background())

	q := &OfflineQueue{
		pending:      pending,
		deadLetters:  deadLetters,
		executor:     executor,
		connectivity: connectivity,
		publisher:    publisher,
		clock:        clk,
		cfg:          cfg,
		runCtx:       runCtx,
		cancelRun:    cancel,
		observers:    make(map[int]func(QueueStats)),
	}

	for _, opt := range opts {
		opt(q)
	}

	return q
}

// Initialize drains on every offline to online transition and once immediately when online.
func (q *OfflineQueue) Initialize(ctx context.Context) {
	q.timerMu.Lock()
	if q.unsubscribe == nil {
		q.unsubscribe = q.connectivity.Subscribe(func(online bool) {
			if !online {
				slog.Info("device went offline, queued actions will wait")

				return
			}

			slog.Info("device back online, draining offline queue")

			go q.ProcessQueue(q.runCtx)
		})
	}
	q.timerMu.Unlock()

	if q.connectivity.Online() {
		q.ProcessQueue(ctx)
	}
}

func (q *OfflineQueue) Close() {
	q.timerMu.Lock()
	defer q.timerMu.Unlock()

	q.closed = true
	q.cancelRun()

	if q.retryTimer != nil {
		q.retryTimer.Stop()
		q.retryTimer = nil
	}

	if q.unsubscribe != nil {
		q.unsubscribe()
		q.unsubscribe = nil
	}
}

func (q *OfflineQueue) QueueAction(ctx context.Context, input QueueActionInput) (QueueActionOutput, error) {
	slog.Debug("queueing action",
		"action_type", input.Type,
		"reminder_id", input.ReminderID,
		"user_id", input.UserID,
	)

	action, err := q.buildAction(input)
	if err != nil {
		return QueueActionOutput{}, err
	}

	size, err := q.appendPending(ctx, action)
	if err != nil {
		slog.Error("failed to persist queued action",
			"error", err,
			"action_type", input.Type,
			"reminder_id", input.ReminderID,
		)

		return QueueActionOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	slog.Info("action queued",
		"action_id", action.ID().String(),
		"action_type", string(action.Type()),
		"reminder_id", action.ReminderID().String(),
		"queue_size", size,
	)

	q.notify(ctx)

	if q.connectivity.Online() {
		q.ProcessQueue(ctx)
		size = q.QueueSize(ctx)
	}

	return QueueActionOutput{
		ActionID:  action.ID().String(),
		QueueSize: size,
	}, nil
}

func (q *OfflineQueue) buildAction(input QueueActionInput) (*domain.QueuedAction, error) {
	actionType, err := domain.NewActionType(input.Type)
	if err != nil {
		return nil, WrapValidationError("type", err)
	}

	reminderID, err := domain.ReminderIDFromString(input.ReminderID)
	if err != nil {
		return nil, WrapValidationError("reminder_id", err)
	}

	userID, err := domain.UserIDFromString(input.UserID)
	if err != nil {
		return nil, WrapValidationError("user_id", err)
	}

	payload, err := q.buildPayload(actionType, input)
	if err != nil {
		return nil, err
	}

	action, err := domain.NewQueuedAction(reminderID, userID, payload, q.clock.Now())
	if err != nil {
		return nil, WrapValidationError("data", err)
	}

	return action, nil
}

func (q *OfflineQueue) buildPayload(actionType domain.ActionType, input QueueActionInput) (domain.ActionPayload, error) {
	switch actionType {
	case domain.ActionMarkTaken:
		medicationID, err := domain.MedicationIDFromString(input.MedicationID)
		if err != nil {
			return nil, WrapValidationError("medication_id", err)
		}

		return domain.MarkTakenPayload{
			MedicationID:  medicationID,
			ScheduledTime: input.ScheduledTime,
			TakenAt:       input.TakenAt,
		}, nil
	case domain.ActionSnooze:
		until := input.SnoozedUntil
		if until.IsZero() {
			if input.SnoozeMinutes <= 0 {
				return nil, NewValidationError("snooze_minutes", "must be positive when snoozed_until is not set")
			}

			until = q.clock.Now().Add(time.Duration(input.SnoozeMinutes) * time.Minute)
		}

		return domain.SnoozePayload{SnoozedUntil: until}, nil
	case domain.ActionToggleStatus:
		if input.Active == nil {
			return nil, NewValidationError("active", "is required")
		}

		return domain.ToggleStatusPayload{Active: *input.Active}, nil
	case domain.ActionDelete:
		return domain.DeletePayload{}, nil
	case domain.ActionUpdate:
		return domain.UpdatePayload{
			TimeOfDay:  input.TimeOfDay,
			DaysOfWeek: input.DaysOfWeek,
			Timezone:   input.Timezone,
			Dosage:     input.Dosage,
			Notes:      input.Notes,
		}, nil
	default:
		return nil, NewValidationError("type", "unsupported action type")
	}
}

func (q *OfflineQueue) appendPending(ctx context.Context, action *domain.QueuedAction) (int, error) {
	q.storeMu.Lock()
	defer q.storeMu.Unlock()

	actions, err := q.pending.Load(ctx)
	if err != nil {
		return 0, err
	}

	actions = append(actions, action)

	if err := q.pending.Save(ctx, actions); err != nil {
		return 0, err
	}

	return len(actions), nil
}

type replayResult struct {
	action  *domain.QueuedAction
	outcome ReplayOutcome
}

// ProcessQueue executes every pending action once. It is a no-op while offline or while another
// pass is running.
func (q *OfflineQueue) ProcessQueue(ctx context.Context) ProcessResult {
	if !q.connectivity.Online() {
		slog.Debug("skipping queue drain while offline")

		return ProcessResult{Skipped: true, SkipReason: SkipOffline}
	}

	if !q.draining.CompareAndSwap(false, true) {
		slog.Debug("queue drain already in progress")

		return ProcessResult{Skipped: true, SkipReason: SkipDraining}
	}

	result := q.drain(ctx)

	q.draining.Store(false)
	q.notify(ctx)

	if result.Remaining > 0 {
		q.scheduleRetry()
	} else {
		q.cancelRetry()
	}

	return result
}

func (q *OfflineQueue) drain(ctx context.Context) ProcessResult {
	q.storeMu.Lock()
	snapshot, err := q.pending.Load(ctx)
	q.storeMu.Unlock()

	if err != nil {
		slog.Error("failed to load offline queue",
			"error", err,
		)

		// a retry is the only way forward when storage is temporarily unreadable
		return ProcessResult{Skipped: true, SkipReason: SkipLoadError, Remaining: 1}
	}

	if len(snapshot) == 0 {
		return ProcessResult{}
	}

	slog.Debug("draining offline queue",
		"count", len(snapshot),
	)

	results := make(map[domain.ActionID]replayResult, len(snapshot))

	var result ProcessResult

	for _, action := range snapshot {
		if ctx.Err() != nil {
			break
		}

		outcome := q.replay(ctx, action)
		if outcome == "" {
			break
		}

		results[action.ID()] = replayResult{action: action, outcome: outcome}
		result.Attempted++

		switch outcome {
		case ReplaySucceeded:
			result.Succeeded++
		case ReplayRetained:
			result.Retained++
		case ReplayDeadLettered:
			result.DeadLettered++
		}
	}

	remaining, deadLettered, err := q.merge(ctx, results)
	if err != nil {
		slog.Error("failed to persist offline queue after drain",
			"error", err,
		)

		result.Remaining = len(snapshot)

		return result
	}

	result.Remaining = remaining

	for _, action := range deadLettered {
		q.publishNeedsResolution(ctx, action)
	}

	slog.Info("offline queue drained",
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"retained", result.Retained,
		"dead_lettered", result.DeadLettered,
		"remaining", result.Remaining,
	)

	return result
}

// replay returns an empty outcome when the pass was cancelled mid-action.
func (q *OfflineQueue) replay(ctx context.Context, action *domain.QueuedAction) ReplayOutcome {
	err := q.executor.Execute(ctx, action)
	if err == nil {
		slog.Debug("queued action replayed",
			"action_id", action.ID().String(),
			"action_type", string(action.Type()),
		)
		q.record(ctx, action, ReplaySucceeded)

		return ReplaySucceeded
	}

	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return ""
	}

	now := q.clock.Now()
	action.RecordFailure(err, now)

	reason := q.deadLetterReason(action, err, now)
	if reason == "" {
		slog.Warn("queued action failed, will retry",
			"action_id", action.ID().String(),
			"action_type", string(action.Type()),
			"reminder_id", action.ReminderID().String(),
			"attempts", action.Attempts(),
			"error", err,
		)
		q.record(ctx, action, ReplayRetained)

		return ReplayRetained
	}

	action.MarkNeedsResolution()

	slog.Error("queued action needs resolution",
		"action_id", action.ID().String(),
		"action_type", string(action.Type()),
		"reminder_id", action.ReminderID().String(),
		"attempts", action.Attempts(),
		"reason", reason,
		"error", err,
	)
	q.record(ctx, action, ReplayDeadLettered)

	return ReplayDeadLettered
}

func (q *OfflineQueue) deadLetterReason(action *domain.QueuedAction, err error, now time.Time) string {
	switch {
	case errors.Is(err, domain.ErrNonRetryable):
		return "non_retryable"
	case action.Attempts() >= q.cfg.MaxAttempts:
		return "max_attempts"
	case q.cfg.MaxAge > 0 && action.Age(now) >= q.cfg.MaxAge:
		return "max_age"
	default:
		return ""
	}
}

// merge applies the pass results to the current pending list so that actions queued during the
// pass are kept. Dead letters are written first; a failure in between leaves a duplicate rather
// than losing the action.
func (q *OfflineQueue) merge(
	ctx context.Context,
	results map[domain.ActionID]replayResult,
) (int, []*domain.QueuedAction, error) {
	q.storeMu.Lock()
	defer q.storeMu.Unlock()

	current, err := q.pending.Load(ctx)
	if err != nil {
		return 0, nil, errors.Wrap(err, "reload pending actions")
	}

	kept := make([]*domain.QueuedAction, 0, len(current))
	deadLettered := make([]*domain.QueuedAction, 0)

	for _, action := range current {
		r, ok := results[action.ID()]
		if !ok {
			kept = append(kept, action)

			continue
		}

		switch r.outcome {
		case ReplaySucceeded:
		case ReplayDeadLettered:
			deadLettered = append(deadLettered, r.action)
		default:
			kept = append(kept, r.action)
		}
	}

	if len(deadLettered) > 0 {
		existing, err := q.deadLetters.Load(ctx)
		if err != nil {
			return 0, nil, errors.Wrap(err, "load dead letters")
		}

		if err := q.deadLetters.Save(ctx, append(existing, deadLettered...)); err != nil {
			return 0, nil, errors.Wrap(err, "save dead letters")
		}
	}

	if err := q.pending.Save(ctx, kept); err != nil {
		return 0, nil, errors.Wrap(err, "save pending actions")
	}

	return len(kept), deadLettered, nil
}

func (q *OfflineQueue) publishNeedsResolution(ctx context.Context, action *domain.QueuedAction) {
	if q.publisher == nil {
		return
	}

	event := pubsub.ActionNeedsResolutionEvent{
		ActionID:       action.ID().String(),
		ActionType:     string(action.Type()),
		ReminderID:     action.ReminderID().String(),
		UserID:         action.UserID().String(),
		Attempts:       action.Attempts(),
		LastError:      action.LastError(),
		QueuedAt:       action.Timestamp(),
		DeadLetteredAt: action.LastAttemptAt(),
	}

	if err := q.publisher.PublishActionNeedsResolution(ctx, event); err != nil {
		slog.Error("failed to publish needs resolution event",
			"action_id", event.ActionID,
			"error", err.Error(),
		)
	}
}

func (q *OfflineQueue) record(ctx context.Context, action *domain.QueuedAction, outcome ReplayOutcome) {
	if q.recorder != nil {
		q.recorder.RecordReplay(ctx, string(action.Type()), string(outcome))
	}
}

func (q *OfflineQueue) scheduleRetry() {
	q.timerMu.Lock()
	defer q.timerMu.Unlock()

	if q.closed {
		return
	}

	if q.retryTimer != nil {
		q.retryTimer.Stop()
	}

	q.retryTimer = time.AfterFunc(q.cfg.RetryDelay, func() {
		q.ProcessQueue(q.runCtx)
	})
}

func (q *OfflineQueue) cancelRetry() {
	q.timerMu.Lock()
	defer q.timerMu.Unlock()

	if q.retryTimer != nil {
		q.retryTimer.Stop()
		q.retryTimer = nil
	}
}

// QueueSize reports 0 when storage cannot be read.
func (q *OfflineQueue) QueueSize(ctx context.Context) int {
	actions, err := q.pending.Load(ctx)
	if err != nil {
		slog.Error("failed to read offline queue size",
			"error", err,
		)

		return 0
	}

	return len(actions)
}

func (q *OfflineQueue) ClearQueue(ctx context.Context) error {
	q.storeMu.Lock()
	err := q.pending.Clear(ctx)
	q.storeMu.Unlock()

	if err != nil {
		slog.Error("failed to clear offline queue",
			"error", err,
		)

		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	q.cancelRetry()

	slog.Warn("offline queue cleared")

	q.notify(ctx)

	return nil
}

func (q *OfflineQueue) DeadLetters(ctx context.Context) ([]QueuedActionOutput, error) {
	actions, err := q.deadLetters.Load(ctx)
	if err != nil {
		slog.Error("failed to load dead letters",
			"error", err,
		)

		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return FromQueuedActions(actions), nil
}

// RetryDeadLetter moves the action back to the end of the pending list with a fresh attempt budget.
func (q *OfflineQueue) RetryDeadLetter(ctx context.Context, input DeadLetterInput) error {
	slog.Debug("retrying dead letter",
		"action_id", input.ID,
	)

	id, err := domain.ActionIDFromString(input.ID)
	if err != nil {
		return WrapValidationError("id", err)
	}

	if err := q.moveDeadLetter(ctx, id, true); err != nil {
		return err
	}

	slog.Info("dead letter moved back to queue",
		"action_id", input.ID,
	)

	q.notify(ctx)

	if q.connectivity.Online() {
		q.ProcessQueue(ctx)
	}

	return nil
}

func (q *OfflineQueue) DiscardDeadLetter(ctx context.Context, input DeadLetterInput) error {
	slog.Debug("discarding dead letter",
		"action_id", input.ID,
	)

	id, err := domain.ActionIDFromString(input.ID)
	if err != nil {
		return WrapValidationError("id", err)
	}

	if err := q.moveDeadLetter(ctx, id, false); err != nil {
		return err
	}

	slog.Info("dead letter discarded",
		"action_id", input.ID,
	)

	q.notify(ctx)

	return nil
}

func (q *OfflineQueue) moveDeadLetter(ctx context.Context, id domain.ActionID, requeue bool) error {
	q.storeMu.Lock()
	defer q.storeMu.Unlock()

	letters, err := q.deadLetters.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	var (
		target *domain.QueuedAction
		rest   = make([]*domain.QueuedAction, 0, len(letters))
	)

	for _, a := range letters {
		if target == nil && a.ID().Equals(id) {
			target = a

			continue
		}

		rest = append(rest, a)
	}

	if target == nil {
		return fmt.Errorf("%w: %v", ErrNotFound, domain.ErrActionNotFound)
	}

	if requeue {
		pending, err := q.pending.Load(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}

		target.ResetForRetry()

		if err := q.pending.Save(ctx, append(pending, target)); err != nil {
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
	}

	if err := q.deadLetters.Save(ctx, rest); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return nil
}

func (q *OfflineQueue) Stats(ctx context.Context) QueueStats {
	stats := QueueStats{
		Pending:  q.QueueSize(ctx),
		Draining: q.draining.Load(),
	}

	letters, err := q.deadLetters.Load(ctx)
	if err != nil {
		slog.Error("failed to read dead letter count",
			"error", err,
		)
	} else {
		stats.NeedsResolution = len(letters)
	}

	return stats
}

// OnChange registers fn to receive stats after every queue mutation. fn must not block.
func (q *OfflineQueue) OnChange(fn func(QueueStats)) (unsubscribe func()) {
	q.observersMu.Lock()
	defer q.observersMu.Unlock()

	id := q.nextObserverID
	q.nextObserverID++
	q.observers[id] = fn

	return func() {
		q.observersMu.Lock()
		defer q.observersMu.Unlock()

		delete(q.observers, id)
	}
}

func (q *OfflineQueue) notify(ctx context.Context) {
	q.observersMu.RLock()
	if len(q.observers) == 0 {
		q.observersMu.RUnlock()

		return
	}

	fns := make([]func(QueueStats), 0, len(q.observers))
	for _, fn := range q.observers {
		fns = append(fns, fn)
	}
	q.observersMu.RUnlock()

	stats := q.Stats(ctx)
	for _, fn := range fns {
		fn(stats)
	}
}
