package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is the backend row the queue replays against. Only the fields the queue and the
// dose projector touch are modelled.
type Reminder struct {
	id           ReminderID
	userID       UserID
	medicationID MedicationID
	timeOfDay    string
	daysOfWeek   []int
	timezone     string
	dosage       string
	notes        string
	active       bool
	snoozedUntil *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func ReconstituteReminder(
	id ReminderID,
	userID UserID,
	medicationID MedicationID,
	timeOfDay string,
	daysOfWeek []int,
	timezone string,
	dosage string,
	notes string,
	active bool,
	snoozedUntil *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *Reminder {
	return &Reminder{
		id:           id,
		userID:       userID,
		medicationID: medicationID,
		timeOfDay:    timeOfDay,
		daysOfWeek:   daysOfWeek,
		timezone:     timezone,
		dosage:       dosage,
		notes:        notes,
		active:       active,
		snoozedUntil: snoozedUntil,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (r *Reminder) ID() ReminderID {
	return r.id
}

func (r *Reminder) UserID() UserID {
	return r.userID
}

func (r *Reminder) MedicationID() MedicationID {
	return r.medicationID
}

func (r *Reminder) TimeOfDay() string {
	return r.timeOfDay
}

func (r *Reminder) DaysOfWeek() []int {
	return r.daysOfWeek
}

func (r *Reminder) Timezone() string {
	return r.timezone
}

func (r *Reminder) Dosage() string {
	return r.dosage
}

func (r *Reminder) Notes() string {
	return r.notes
}

func (r *Reminder) IsActive() bool {
	return r.active
}

func (r *Reminder) SnoozedUntil() *time.Time {
	return r.snoozedUntil
}

func (r *Reminder) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Reminder) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *Reminder) Schedule() (ReminderSchedule, error) {
	return NewReminderSchedule(r.timeOfDay, r.daysOfWeek, r.timezone)
}

type AdherenceStatus string

const (
	AdherenceTaken   AdherenceStatus = "taken"
	AdherenceMissed  AdherenceStatus = "missed"
	AdherenceSkipped AdherenceStatus = "skipped"
)

type AdherenceEntry struct {
	// ID is the row key; a replayed entry keeps its ID so the write lands once. Zero mints a new one.
	ID            uuid.UUID
	ReminderID    ReminderID
	UserID        UserID
	MedicationID  MedicationID
	ScheduledTime time.Time
	TakenAt       time.Time
	Status        AdherenceStatus
}

// Profile carries the trial fields of the profiles row.
type Profile struct {
	UserID         UserID
	TrialStartedAt *time.Time
	TrialEndsAt    *time.Time
}

type SubscriptionRecord struct {
	UserID           UserID
	Plan             string
	Status           string
	CurrentPeriodEnd *time.Time
}
