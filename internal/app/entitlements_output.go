package app

import (
	"time"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

type EntitlementsOutput struct {
	Plan   string
	Status string
	Limits map[string]int
	// Stale is set when the last refresh failed and an older snapshot is served.
	Stale bool
}

func FromEntitlements(e domain.Entitlements, stale bool) EntitlementsOutput {
	limits := make(map[string]int, len(e.Limits()))
	for k, v := range e.Limits() {
		limits[string(k)] = v
	}

	return EntitlementsOutput{
		Plan:   string(e.Plan()),
		Status: string(e.Status()),
		Limits: limits,
		Stale:  stale,
	}
}

type SubscriptionOutput struct {
	Plan               string
	Status             string
	EffectivePlan      string
	CurrentPeriodEnd   *time.Time
	TrialStartedAt     *time.Time
	TrialEndsAt        *time.Time
	IsTrialActive      bool
	RemainingTrialDays int
	CanStartTrial      bool
}

func FromSubscription(s domain.Subscription, now time.Time) SubscriptionOutput {
	return SubscriptionOutput{
		Plan:               string(s.Plan),
		Status:             string(s.Status),
		EffectivePlan:      string(s.EffectivePlan(now)),
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		TrialStartedAt:     s.TrialStartedAt,
		TrialEndsAt:        s.TrialEndsAt,
		IsTrialActive:      s.IsTrialActive(now),
		RemainingTrialDays: s.RemainingTrialDays(now),
		CanStartTrial:      s.CanStartTrial(now),
	}
}
