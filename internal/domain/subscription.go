package domain

import (
	"math"
	"time"
)

type SubscriptionStatus string

// Transitions (trialing -> active | past_due -> canceled) are driven by the billing provider;
// this package only observes them.
const (
	SubscriptionStatusFree     SubscriptionStatus = "free"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// ParseSubscriptionStatus maps unknown or empty values to free.
func ParseSubscriptionStatus(s string) SubscriptionStatus {
	switch SubscriptionStatus(s) {
	case SubscriptionStatusTrialing, SubscriptionStatusActive, SubscriptionStatusPastDue, SubscriptionStatusCanceled:
		return SubscriptionStatus(s)
	default:
		return SubscriptionStatusFree
	}
}

// IsPaid reports whether the status grants the plan's entitlements. past_due keeps them while
// the billing provider retries the charge.
func (s SubscriptionStatus) IsPaid() bool {
	switch s {
	case SubscriptionStatusTrialing, SubscriptionStatusActive, SubscriptionStatusPastDue:
		return true
	default:
		return false
	}
}

type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
	PlanFamily  Plan = "family"
)

func ParsePlan(s string) Plan {
	switch Plan(s) {
	case PlanPremium, PlanFamily:
		return Plan(s)
	default:
		return PlanFree
	}
}

// Subscription is the cached view of a user's subscription row joined with the trial fields
// of the profile row.
type Subscription struct {
	Plan             Plan
	Status           SubscriptionStatus
	CurrentPeriodEnd *time.Time
	TrialStartedAt   *time.Time
	TrialEndsAt      *time.Time
}

func FreeSubscription() Subscription {
	return Subscription{
		Plan:   PlanFree,
		Status: SubscriptionStatusFree,
	}
}

func (s Subscription) IsTrialActive(now time.Time) bool {
	if s.TrialEndsAt == nil || !now.Before(*s.TrialEndsAt) {
		return false
	}

	return s.Status == SubscriptionStatusTrialing || s.Status == SubscriptionStatusFree
}

// EffectivePlan is the plan whose entitlements apply right now.
func (s Subscription) EffectivePlan(now time.Time) Plan {
	if s.Status.IsPaid() && s.Plan != PlanFree {
		return s.Plan
	}

	if s.IsTrialActive(now) {
		if s.Plan == PlanFree {
			return PlanPremium
		}

		return s.Plan
	}

	return PlanFree
}

func (s Subscription) CanStartTrial(now time.Time) bool {
	if s.TrialStartedAt != nil {
		return false
	}

	return !s.Status.IsPaid() && !s.IsTrialActive(now)
}

// RemainingTrialDays rounds partial days up and is 0 outside an active trial.
func (s Subscription) RemainingTrialDays(now time.Time) int {
	if !s.IsTrialActive(now) {
		return 0
	}

	return int(math.Ceil(s.TrialEndsAt.Sub(now).Hours() / 24))
}
