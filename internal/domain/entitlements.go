package domain

import (
	"errors"
	"fmt"
	"maps"
	"time"
)

type FeatureKey string

const (
	FeatureRemindersLimit     FeatureKey = "reminders_limit"
	FeatureAIChatMinutes      FeatureKey = "ai_chat_minutes_per_month"
	FeatureFamilyMembersLimit FeatureKey = "family_members_limit"
	FeatureAdherenceExport    FeatureKey = "adherence_export"
	FeatureCaregiverAlerts    FeatureKey = "caregiver_alerts"
)

// Unlimited is the limit value for features without a cap.
const Unlimited = -1

var (
	ErrUnknownFeature      = errors.New("unknown feature")
	ErrFreePlanMissing     = errors.New("plan catalog must define the free plan")
	ErrInvalidFeatureLimit = errors.New("feature limit must be -1 (unlimited) or non-negative")
)

func NewFeatureKey(s string) (FeatureKey, error) {
	switch FeatureKey(s) {
	case FeatureRemindersLimit, FeatureAIChatMinutes, FeatureFamilyMembersLimit,
		FeatureAdherenceExport, FeatureCaregiverAlerts:
		return FeatureKey(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFeature, s)
	}
}

// IsBoolean reports whether the feature is an on/off flag stored as 0/1.
func (k FeatureKey) IsBoolean() bool {
	return k == FeatureAdherenceExport || k == FeatureCaregiverAlerts
}

type Limits map[FeatureKey]int

type Entitlements struct {
	plan   Plan
	status SubscriptionStatus
	limits Limits
}

func NewEntitlements(plan Plan, status SubscriptionStatus, limits Limits) Entitlements {
	return Entitlements{
		plan:   plan,
		status: status,
		limits: maps.Clone(limits),
	}
}

// FreeTierEntitlements is the conservative default used for unauthenticated users, users
// without a subscription row and failed fetches without a cached snapshot.
func FreeTierEntitlements() Entitlements {
	return DefaultPlanCatalog().EntitlementsFor(FreeSubscription(), time.Time{})
}

func (e Entitlements) Plan() Plan {
	return e.plan
}

func (e Entitlements) Status() SubscriptionStatus {
	return e.status
}

// Limit returns 0 for keys the snapshot does not know.
func (e Entitlements) Limit(key FeatureKey) int {
	return e.limits[key]
}

func (e Entitlements) Limits() Limits {
	return maps.Clone(e.limits)
}

func (e Entitlements) HasAccess(key FeatureKey) bool {
	return e.Limit(key) != 0
}

// Allows reports whether one more unit fits under the limit given current usage.
func (e Entitlements) Allows(key FeatureKey, usage int) bool {
	limit := e.Limit(key)
	if limit == Unlimited {
		return true
	}

	return usage < limit
}

type PlanCatalog struct {
	plans map[Plan]Limits
}

func DefaultPlanCatalog() PlanCatalog {
	return PlanCatalog{
		plans: map[Plan]Limits{
			PlanFree: {
				FeatureRemindersLimit:     3,
				FeatureAIChatMinutes:      0,
				FeatureFamilyMembersLimit: 0,
				FeatureAdherenceExport:    0,
				FeatureCaregiverAlerts:    0,
			},
			PlanPremium: {
				FeatureRemindersLimit:     Unlimited,
				FeatureAIChatMinutes:      120,
				FeatureFamilyMembersLimit: 0,
				FeatureAdherenceExport:    1,
				FeatureCaregiverAlerts:    0,
			},
			PlanFamily: {
				FeatureRemindersLimit:     Unlimited,
				FeatureAIChatMinutes:      300,
				FeatureFamilyMembersLimit: 5,
				FeatureAdherenceExport:    1,
				FeatureCaregiverAlerts:    1,
			},
		},
	}
}

func NewPlanCatalog(plans map[Plan]Limits) (PlanCatalog, error) {
	if _, ok := plans[PlanFree]; !ok {
		return PlanCatalog{}, ErrFreePlanMissing
	}

	cloned := make(map[Plan]Limits, len(plans))

	for plan, limits := range plans {
		for key, v := range limits {
			if v < Unlimited {
				return PlanCatalog{}, fmt.Errorf("%w: %s.%s=%d", ErrInvalidFeatureLimit, plan, key, v)
			}
		}

		cloned[plan] = maps.Clone(limits)
	}

	return PlanCatalog{plans: cloned}, nil
}

// LimitsFor falls back to the free plan for plans the catalog does not define.
func (c PlanCatalog) LimitsFor(plan Plan) Limits {
	if limits, ok := c.plans[plan]; ok {
		return limits
	}

	return c.plans[PlanFree]
}

func (c PlanCatalog) EntitlementsFor(sub Subscription, now time.Time) Entitlements {
	plan := sub.EffectivePlan(now)

	status := sub.Status
	if status == SubscriptionStatusFree && sub.IsTrialActive(now) {
		status = SubscriptionStatusTrialing
	}

	return NewEntitlements(plan, status, c.LimitsFor(plan))
}
