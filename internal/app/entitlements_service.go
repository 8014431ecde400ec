package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
	"github.com/KasumiMercury/primind-dose-core/internal/pkg/clock"
)

const (
	DefaultEntitlementsRefreshInterval = 5 * time.Minute
	DefaultEntitlementsSettleDelay     = 1 * time.Second
)

type EntitlementsConfig struct {
	RefreshInterval time.Duration
	// SettleDelay of 0 refreshes synchronously inside HandleChange.
	SettleDelay time.Duration
}

// EntitlementsGate answers "may this user do X" from a cached subscription snapshot. Reads never
// fail; anything unknown degrades to the free tier.
type EntitlementsGate interface {
	GetUserEntitlements(ctx context.Context, userID string) EntitlementsOutput
	GetUserSubscription(ctx context.Context, userID string) SubscriptionOutput
	CheckFeatureAccess(ctx context.Context, userID string, key domain.FeatureKey) bool
	CheckLimit(ctx context.Context, userID string, key domain.FeatureKey, currentUsage int) bool
	CanStartTrial(ctx context.Context, userID string) bool
	GetRemainingTrialDays(ctx context.Context, userID string) int
	OnAuthStateChange(ctx context.Context, userID string)
}

var _ EntitlementsGate = (*EntitlementsService)(nil)

type cachedSubscription struct {
	subscription domain.Subscription
	fetchedAt    time.Time
	stale        bool
}

type EntitlementsService struct {
	repo    domain.SubscriptionRepository
	catalog domain.PlanCatalog
	clock   clock.Clock
	cfg     EntitlementsConfig

	mu     sync.Mutex
	cache  map[domain.UserID]*cachedSubscription
	settle map[domain.UserID]*time.Timer
	closed bool

	// generation is bumped on sign-out; fetches started under an older generation are not cached.
	generation uint64

	runCtx    context.Context
	cancelRun context.CancelFunc
}

func NewEntitlementsService(
	repo domain.SubscriptionRepository,
	catalog domain.PlanCatalog,
	clk clock.Clock,
	cfg EntitlementsConfig,
) *EntitlementsService {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultEntitlementsRefreshInterval
	}

	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}

	runCtx, cancel := context.WithCancel(context.Background())

	return &EntitlementsService{
		repo:      repo,
		catalog:   catalog,
		clock:     clk,
		cfg:       cfg,
		cache:     make(map[domain.UserID]*cachedSubscription),
		settle:    make(map[domain.UserID]*time.Timer),
		runCtx:    runCtx,
		cancelRun: cancel,
	}
}

func (s *EntitlementsService) GetUserEntitlements(ctx context.Context, userID string) EntitlementsOutput {
	sub, stale := s.subscriptionFor(ctx, userID)

	return FromEntitlements(s.catalog.EntitlementsFor(sub, s.clock.Now()), stale)
}

func (s *EntitlementsService) GetUserSubscription(ctx context.Context, userID string) SubscriptionOutput {
	sub, _ := s.subscriptionFor(ctx, userID)

	return FromSubscription(sub, s.clock.Now())
}

func (s *EntitlementsService) CheckFeatureAccess(ctx context.Context, userID string, key domain.FeatureKey) bool {
	sub, _ := s.subscriptionFor(ctx, userID)

	return s.catalog.EntitlementsFor(sub, s.clock.Now()).HasAccess(key)
}

func (s *EntitlementsService) CheckLimit(ctx context.Context, userID string, key domain.FeatureKey, currentUsage int) bool {
	sub, _ := s.subscriptionFor(ctx, userID)

	return s.catalog.EntitlementsFor(sub, s.clock.Now()).Allows(key, currentUsage)
}

func (s *EntitlementsService) CanStartTrial(ctx context.Context, userID string) bool {
	if _, err := domain.UserIDFromString(userID); err != nil {
		return false
	}

	sub, _ := s.subscriptionFor(ctx, userID)

	return sub.CanStartTrial(s.clock.Now())
}

func (s *EntitlementsService) GetRemainingTrialDays(ctx context.Context, userID string) int {
	sub, _ := s.subscriptionFor(ctx, userID)

	return sub.RemainingTrialDays(s.clock.Now())
}

// OnAuthStateChange refetches for a signed-in user; an empty userID (sign-out) drops the whole cache.
func (s *EntitlementsService) OnAuthStateChange(ctx context.Context, userID string) {
	if userID == "" {
		s.mu.Lock()
		for id, t := range s.settle {
			t.Stop()
			delete(s.settle, id)
		}

		s.cache = make(map[domain.UserID]*cachedSubscription)
		s.generation++
		s.mu.Unlock()

		slog.Info("entitlements cache cleared on sign-out")

		return
	}

	id, err := domain.UserIDFromString(userID)
	if err != nil {
		slog.Warn("ignoring auth state change with invalid user id",
			"user_id", userID,
			"error", err,
		)

		return
	}

	s.refresh(ctx, id)
}

// HandleChange reacts to realtime row changes on subscriptions and profiles. Only users with a
// cached snapshot are refetched; bursts for one user collapse into a single refresh.
func (s *EntitlementsService) HandleChange(ctx context.Context, event domain.ChangeEvent) error {
	if !event.AffectsEntitlements() {
		return nil
	}

	s.mu.Lock()
	_, cached := s.cache[event.UserID]
	closed := s.closed
	s.mu.Unlock()

	if closed || !cached {
		slog.Debug("ignoring entitlement change for uncached user",
			"user_id", event.UserID.String(),
			"table", event.Table,
		)

		return nil
	}

	slog.Debug("entitlement change received",
		"user_id", event.UserID.String(),
		"table", event.Table,
		"type", string(event.Type),
	)

	if s.cfg.SettleDelay == 0 {
		s.refresh(ctx, event.UserID)

		return nil
	}

	userID := event.UserID

	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.settle[userID]; ok {
		t.Reset(s.cfg.SettleDelay)

		return nil
	}

	s.settle[userID] = time.AfterFunc(s.cfg.SettleDelay, func() {
		s.mu.Lock()
		delete(s.settle, userID)
		s.mu.Unlock()

		s.refresh(s.runCtx, userID)
	})

	return nil
}

// Run refreshes every cached user each RefreshInterval until ctx is done or Close is called.
func (s *EntitlementsService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.runCtx.Done():
			return
		case <-ticker.C:
			s.RefreshAll(ctx)
		}
	}
}

func (s *EntitlementsService) RefreshAll(ctx context.Context) {
	s.mu.Lock()
	ids := make([]domain.UserID, 0, len(s.cache))
	for id := range s.cache {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}

		s.refresh(ctx, id)
	}
}

func (s *EntitlementsService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.cancelRun()

	for id, t := range s.settle {
		t.Stop()
		delete(s.settle, id)
	}
}

// subscriptionFor returns the cached snapshot when fresh, fetching otherwise. The bool reports
// that a stale snapshot is served because the fetch failed.
func (s *EntitlementsService) subscriptionFor(ctx context.Context, userID string) (domain.Subscription, bool) {
	if userID == "" {
		return domain.FreeSubscription(), false
	}

	id, err := domain.UserIDFromString(userID)
	if err != nil {
		slog.Warn("invalid user id, using free tier",
			"user_id", userID,
			"error", err,
		)

		return domain.FreeSubscription(), false
	}

	s.mu.Lock()
	entry, ok := s.cache[id]

	if ok && !entry.stale && s.clock.Now().Sub(entry.fetchedAt) < s.cfg.RefreshInterval {
		sub := entry.subscription
		s.mu.Unlock()

		return sub, false
	}
	s.mu.Unlock()

	return s.refresh(ctx, id)
}

func (s *EntitlementsService) refresh(ctx context.Context, userID domain.UserID) (domain.Subscription, bool) {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	sub, err := s.fetch(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		slog.Debug("discarding entitlement fetch that raced a sign-out",
			"user_id", userID.String(),
		)

		if err != nil {
			return domain.FreeSubscription(), false
		}

		return sub, false
	}

	if err != nil {
		if entry, ok := s.cache[userID]; ok {
			slog.Warn("entitlement refresh failed, serving cached snapshot",
				"user_id", userID.String(),
				"fetched_at", entry.fetchedAt,
				"error", err,
			)

			entry.stale = true

			return entry.subscription, true
		}

		slog.Error("entitlement fetch failed, using free tier",
			"user_id", userID.String(),
			"error", err,
		)

		return domain.FreeSubscription(), false
	}

	prev, hadPrev := s.cache[userID]
	s.cache[userID] = &cachedSubscription{
		subscription: sub,
		fetchedAt:    s.clock.Now(),
	}

	if !hadPrev || prev.subscription.Plan != sub.Plan || prev.subscription.Status != sub.Status {
		slog.Info("entitlements updated",
			"user_id", userID.String(),
			"plan", string(sub.Plan),
			"status", string(sub.Status),
		)
	}

	return sub, false
}

func (s *EntitlementsService) fetch(ctx context.Context, userID domain.UserID) (domain.Subscription, error) {
	sub := domain.FreeSubscription()

	record, err := s.repo.FindSubscription(ctx, userID)

	switch {
	case errors.Is(err, domain.ErrSubscriptionNotFound):
	case err != nil:
		return domain.Subscription{}, err
	default:
		sub.Plan = domain.ParsePlan(record.Plan)
		sub.Status = domain.ParseSubscriptionStatus(record.Status)
		sub.CurrentPeriodEnd = record.CurrentPeriodEnd
	}

	profile, err := s.repo.FindProfile(ctx, userID)

	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
	case err != nil:
		return domain.Subscription{}, err
	default:
		sub.TrialStartedAt = profile.TrialStartedAt
		sub.TrialEndsAt = profile.TrialEndsAt
	}

	return sub, nil
}
