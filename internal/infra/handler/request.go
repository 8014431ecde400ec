package handler

import "time"

type QueueActionRequest struct {
	Type       string `json:"type" binding:"required,oneof=mark_taken snooze toggle_status delete update"`
	ReminderID string `json:"reminder_id" binding:"required,uuid"`

	MedicationID  string    `json:"medication_id" binding:"omitempty,uuid"`
	ScheduledTime time.Time `json:"scheduled_time"`
	TakenAt       time.Time `json:"taken_at"`

	SnoozeMinutes int       `json:"snooze_minutes" binding:"omitempty,min=1,max=1440"`
	SnoozedUntil  time.Time `json:"snoozed_until"`

	Active *bool `json:"is_active"`

	TimeOfDay  *string `json:"time_of_day"`
	DaysOfWeek *[]int  `json:"days_of_week"`
	Timezone   *string `json:"timezone"`
	Dosage     *string `json:"dosage"`
	Notes      *string `json:"notes"`
}

type ConnectivityRequest struct {
	Online *bool `json:"online" binding:"required"`
}

type ScheduleRequest struct {
	TimeOfDay  string `json:"time_of_day" binding:"required"`
	DaysOfWeek []int  `json:"days_of_week"`
	Timezone   string `json:"timezone"`
}

type DoseWindowRequest struct {
	DoseTime      string `json:"dose_time" binding:"required"`
	Timezone      string `json:"timezone"`
	WindowMinutes int    `json:"window_minutes"`
}

type DoseStatusRequest struct {
	Frequency     string            `json:"frequency"`
	Schedules     []ScheduleRequest `json:"schedules" binding:"omitempty,dive"`
	Timezone      string            `json:"timezone"`
	RecentlyTaken bool              `json:"recently_taken"`
	WindowMinutes int               `json:"window_minutes"`
}

type FeatureAccessRequest struct {
	Usage *int `form:"usage" binding:"omitempty,min=0"`
}

type SessionRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}
