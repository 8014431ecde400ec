package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

// DaysOfWeekJSONB holds ISO weekdays, 1 (Monday) to 7 (Sunday).
type DaysOfWeekJSONB []int

func (d *DaysOfWeekJSONB) Scan(value interface{}) error {
	if value == nil {
		*d = nil

		return nil
	}

	var bytes []byte

	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan DaysOfWeekJSONB: expected []byte")
	}

	return json.Unmarshal(bytes, d)
}

func (d DaysOfWeekJSONB) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(d)
}

type UserMedicationModel struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index:idx_user_medications_user_id"`
	Name      string    `gorm:"column:name;type:text;not null"`
	Strength  string    `gorm:"column:strength;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null"`
}

func (UserMedicationModel) TableName() string {
	return "user_medications"
}

type ReminderModel struct {
	ID           string          `gorm:"column:id;type:uuid;primaryKey"`
	UserID       string          `gorm:"column:user_id;type:uuid;not null;index:idx_medication_reminders_user_id"`
	MedicationID string          `gorm:"column:medication_id;type:uuid;not null"`
	TimeOfDay    string          `gorm:"column:time_of_day;type:varchar(8);not null"`
	DaysOfWeek   DaysOfWeekJSONB `gorm:"column:days_of_week;type:jsonb;not null"`
	Timezone     string          `gorm:"column:timezone;type:varchar(64);not null;default:'UTC'"`
	Dosage       string          `gorm:"column:dosage;type:text"`
	Notes        string          `gorm:"column:notes;type:text"`
	IsActive     bool            `gorm:"column:is_active;type:boolean;not null;default:true"`
	SnoozedUntil *time.Time      `gorm:"column:snoozed_until;type:timestamptz"`
	CreatedAt    time.Time       `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;type:timestamptz;not null"`

	Medication UserMedicationModel `gorm:"foreignKey:MedicationID;constraint:OnDelete:CASCADE"`
}

func (ReminderModel) TableName() string {
	return "medication_reminders"
}

func (m *ReminderModel) ToEntity() (*domain.Reminder, error) {
	id, err := domain.ReminderIDFromString(m.ID)
	if err != nil {
		return nil, err
	}

	userID, err := domain.UserIDFromString(m.UserID)
	if err != nil {
		return nil, err
	}

	medicationID, err := domain.MedicationIDFromString(m.MedicationID)
	if err != nil {
		return nil, err
	}

	days := make([]int, len(m.DaysOfWeek))
	copy(days, m.DaysOfWeek)

	return domain.ReconstituteReminder(
		id,
		userID,
		medicationID,
		m.TimeOfDay,
		days,
		m.Timezone,
		m.Dosage,
		m.Notes,
		m.IsActive,
		m.SnoozedUntil,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

type AdherenceLogModel struct {
	ID            string    `gorm:"column:id;type:uuid;primaryKey"`
	ReminderID    string    `gorm:"column:reminder_id;type:uuid;not null;index:idx_adherence_log_reminder_id"`
	UserID        string    `gorm:"column:user_id;type:uuid;not null;index:idx_adherence_log_user_id"`
	MedicationID  string    `gorm:"column:medication_id;type:uuid;not null"`
	ScheduledTime time.Time `gorm:"column:scheduled_time;type:timestamptz;not null"`
	TakenAt       time.Time `gorm:"column:taken_at;type:timestamptz"`
	Status        string    `gorm:"column:status;type:varchar(16);not null;check:chk_adherence_status,status IN ('taken','missed','skipped')"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz;not null"`

	Reminder ReminderModel `gorm:"foreignKey:ReminderID;constraint:OnDelete:CASCADE"`
}

func (AdherenceLogModel) TableName() string {
	return "medication_adherence_log"
}

func AdherenceLogFromEntry(id string, entry domain.AdherenceEntry) *AdherenceLogModel {
	return &AdherenceLogModel{
		ID:            id,
		ReminderID:    entry.ReminderID.String(),
		UserID:        entry.UserID.String(),
		MedicationID:  entry.MedicationID.String(),
		ScheduledTime: entry.ScheduledTime,
		TakenAt:       entry.TakenAt,
		Status:        string(entry.Status),
	}
}

type ProfileModel struct {
	ID             string     `gorm:"column:id;type:uuid;primaryKey"`
	TrialStartedAt *time.Time `gorm:"column:trial_started_at;type:timestamptz"`
	TrialEndsAt    *time.Time `gorm:"column:trial_ends_at;type:timestamptz"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (ProfileModel) TableName() string {
	return domain.TableProfiles
}

func (m *ProfileModel) ToEntity() (*domain.Profile, error) {
	userID, err := domain.UserIDFromString(m.ID)
	if err != nil {
		return nil, err
	}

	return &domain.Profile{
		UserID:         userID,
		TrialStartedAt: m.TrialStartedAt,
		TrialEndsAt:    m.TrialEndsAt,
	}, nil
}

type SubscriptionModel struct {
	ID               string     `gorm:"column:id;type:uuid;primaryKey"`
	UserID           string     `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_subscriptions_user_id"`
	Plan             string     `gorm:"column:plan;type:varchar(32);not null;default:'free'"`
	Status           string     `gorm:"column:status;type:varchar(32);not null;default:'free'"`
	CurrentPeriodEnd *time.Time `gorm:"column:current_period_end;type:timestamptz"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (SubscriptionModel) TableName() string {
	return domain.TableSubscriptions
}

func (m *SubscriptionModel) ToEntity() (*domain.SubscriptionRecord, error) {
	userID, err := domain.UserIDFromString(m.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.SubscriptionRecord{
		UserID:           userID,
		Plan:             m.Plan,
		Status:           m.Status,
		CurrentPeriodEnd: m.CurrentPeriodEnd,
	}, nil
}

// AllModels lists every model in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&UserMedicationModel{},
		&ReminderModel{},
		&AdherenceLogModel{},
		&ProfileModel{},
		&SubscriptionModel{},
	}
}
