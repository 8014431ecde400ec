package app

import "time"

// QueueActionInput is the loosely shaped action the UI submits; only the fields of the
// chosen Type are read.
type QueueActionInput struct {
	Type       string
	ReminderID string
	UserID     string

	// mark_taken
	MedicationID  string
	ScheduledTime time.Time
	TakenAt       time.Time

	// snooze: SnoozedUntil wins over SnoozeMinutes
	SnoozeMinutes int
	SnoozedUntil  time.Time

	// toggle_status
	Active *bool

	// update
	TimeOfDay  *string
	DaysOfWeek *[]int
	Timezone   *string
	Dosage     *string
	Notes      *string
}

type DeadLetterInput struct {
	ID string
}
