package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-dose-core/internal/app"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func badRequest(c *gin.Context, err error) {
	slog.Warn("request validation failed",
		"error", err,
		"path", c.Request.URL.Path,
	)
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

func handleError(c *gin.Context, err error) {
	var validationErr *app.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Message,
			Field:   validationErr.Field,
		})

		return
	}

	if errors.Is(err, app.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "resource not found",
		})

		return
	}

	if errors.Is(err, app.ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "authentication required",
		})

		return
	}

	slog.Error("request failed",
		"error", err,
		"path", c.Request.URL.Path,
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "an internal error occurred",
	})
}

type QueueActionResponse struct {
	ActionID  string `json:"action_id"`
	QueueSize int    `json:"queue_size"`
}

type QueuedActionResponse struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	ReminderID    string     `json:"reminder_id"`
	Timestamp     time.Time  `json:"timestamp"`
	Attempts      int        `json:"attempts"`
	LastError     string     `json:"last_error,omitempty"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	Status        string     `json:"status"`
}

type DeadLettersResponse struct {
	Actions []QueuedActionResponse `json:"actions"`
	Count   int                    `json:"count"`
}

type QueueStatsResponse struct {
	Pending         int  `json:"pending"`
	NeedsResolution int  `json:"needs_resolution"`
	Draining        bool `json:"draining"`
}

type ProcessResultResponse struct {
	Skipped      bool   `json:"skipped"`
	SkipReason   string `json:"skip_reason,omitempty"`
	Attempted    int    `json:"attempted"`
	Succeeded    int    `json:"succeeded"`
	Retained     int    `json:"retained"`
	DeadLettered int    `json:"dead_lettered"`
	Remaining    int    `json:"remaining"`
}

type ConnectivityResponse struct {
	Online bool `json:"online"`
}

func FromQueuedAction(output app.QueuedActionOutput) QueuedActionResponse {
	resp := QueuedActionResponse{
		ID:         output.ID,
		Type:       output.Type,
		ReminderID: output.ReminderID,
		Timestamp:  output.Timestamp,
		Attempts:   output.Attempts,
		LastError:  output.LastError,
		Status:     output.Status,
	}

	if !output.LastAttemptAt.IsZero() {
		at := output.LastAttemptAt
		resp.LastAttemptAt = &at
	}

	return resp
}

func FromDeadLetters(outputs []app.QueuedActionOutput) DeadLettersResponse {
	actions := make([]QueuedActionResponse, 0, len(outputs))
	for _, o := range outputs {
		actions = append(actions, FromQueuedAction(o))
	}

	return DeadLettersResponse{
		Actions: actions,
		Count:   len(actions),
	}
}

func FromQueueStats(stats app.QueueStats) QueueStatsResponse {
	return QueueStatsResponse{
		Pending:         stats.Pending,
		NeedsResolution: stats.NeedsResolution,
		Draining:        stats.Draining,
	}
}

func FromProcessResult(r app.ProcessResult) ProcessResultResponse {
	return ProcessResultResponse{
		Skipped:      r.Skipped,
		SkipReason:   string(r.SkipReason),
		Attempted:    r.Attempted,
		Succeeded:    r.Succeeded,
		Retained:     r.Retained,
		DeadLettered: r.DeadLettered,
		Remaining:    r.Remaining,
	}
}

type NextDoseResponse struct {
	Found        bool       `json:"found"`
	At           *time.Time `json:"at,omitempty"`
	Display      string     `json:"display,omitempty"`
	Label        string     `json:"label,omitempty"`
	IsToday      bool       `json:"is_today"`
	IsTomorrow   bool       `json:"is_tomorrow"`
	MinutesUntil int        `json:"minutes_until"`
	Countdown    string     `json:"countdown,omitempty"`
}

type DoseWindowResponse struct {
	DoseTime      time.Time `json:"dose_time"`
	IsCurrent     bool      `json:"is_current"`
	IsPast        bool      `json:"is_past"`
	IsDue         bool      `json:"is_due"`
	MinutesUntil  int       `json:"minutes_until"`
	WindowMinutes int       `json:"window_minutes"`
}

type DoseStatusResponse struct {
	Kind     string              `json:"kind"`
	Message  string              `json:"message"`
	DoseTime *time.Time          `json:"dose_time,omitempty"`
	Window   *DoseWindowResponse `json:"window,omitempty"`
	Next     NextDoseResponse    `json:"next"`
}

func FromNextDose(output app.NextDoseOutput) NextDoseResponse {
	if !output.Found {
		return NextDoseResponse{}
	}

	at := output.At

	return NextDoseResponse{
		Found:        true,
		At:           &at,
		Display:      output.Display,
		Label:        output.Label,
		IsToday:      output.IsToday,
		IsTomorrow:   output.IsTomorrow,
		MinutesUntil: output.MinutesUntil,
		Countdown:    output.Countdown,
	}
}

func FromDoseWindow(output app.DoseWindowOutput) DoseWindowResponse {
	return DoseWindowResponse{
		DoseTime:      output.DoseTime,
		IsCurrent:     output.IsCurrent,
		IsPast:        output.IsPast,
		IsDue:         output.IsDue,
		MinutesUntil:  output.MinutesUntil,
		WindowMinutes: output.WindowMinutes,
	}
}

func FromDoseStatus(output app.DoseStatusOutput) DoseStatusResponse {
	resp := DoseStatusResponse{
		Kind:    output.Kind,
		Message: output.Message,
		Next:    FromNextDose(output.Next),
	}

	if !output.DoseTime.IsZero() {
		doseTime := output.DoseTime
		window := FromDoseWindow(output.Window)
		resp.DoseTime = &doseTime
		resp.Window = &window
	}

	return resp
}

type EntitlementsResponse struct {
	Plan   string         `json:"plan"`
	Status string         `json:"status"`
	Limits map[string]int `json:"limits"`
	Stale  bool           `json:"stale,omitempty"`
}

type FeatureAccessResponse struct {
	Feature string `json:"feature"`
	Allowed bool   `json:"allowed"`
	Usage   *int   `json:"usage,omitempty"`
}

type SubscriptionResponse struct {
	Plan               string     `json:"plan"`
	Status             string     `json:"status"`
	EffectivePlan      string     `json:"effective_plan"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	TrialStartedAt     *time.Time `json:"trial_started_at,omitempty"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	IsTrialActive      bool       `json:"is_trial_active"`
	RemainingTrialDays int        `json:"remaining_trial_days"`
	CanStartTrial      bool       `json:"can_start_trial"`
}

type TrialResponse struct {
	CanStartTrial bool `json:"can_start_trial"`
	RemainingDays int  `json:"remaining_days"`
}

func FromEntitlements(output app.EntitlementsOutput) EntitlementsResponse {
	return EntitlementsResponse{
		Plan:   output.Plan,
		Status: output.Status,
		Limits: output.Limits,
		Stale:  output.Stale,
	}
}

func FromSubscription(output app.SubscriptionOutput) SubscriptionResponse {
	return SubscriptionResponse{
		Plan:               output.Plan,
		Status:             output.Status,
		EffectivePlan:      output.EffectivePlan,
		CurrentPeriodEnd:   output.CurrentPeriodEnd,
		TrialStartedAt:     output.TrialStartedAt,
		TrialEndsAt:        output.TrialEndsAt,
		IsTrialActive:      output.IsTrialActive,
		RemainingTrialDays: output.RemainingTrialDays,
		CanStartTrial:      output.CanStartTrial,
	}
}
