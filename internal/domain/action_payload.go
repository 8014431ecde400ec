package domain

import (
	"fmt"
	"time"
)

// ActionPayload is implemented only by the payload types of this package, one per ActionType.
type ActionPayload interface {
	Type() ActionType
	Validate() error
	isActionPayload()
}

type MarkTakenPayload struct {
	MedicationID  MedicationID
	ScheduledTime time.Time
	TakenAt       time.Time
}

func (MarkTakenPayload) Type() ActionType { return ActionMarkTaken }
func (MarkTakenPayload) isActionPayload() {}

func (p MarkTakenPayload) Validate() error {
	if p.MedicationID.IsZero() {
		return fmt.Errorf("%w: medication id is required", ErrInvalidPayload)
	}

	if p.ScheduledTime.IsZero() {
		return fmt.Errorf("%w: scheduled time is required", ErrInvalidPayload)
	}

	return nil
}

// SnoozePayload carries an absolute instant so that a late replay does not extend the snooze.
type SnoozePayload struct {
	SnoozedUntil time.Time
}

func (SnoozePayload) Type() ActionType { return ActionSnooze }
func (SnoozePayload) isActionPayload() {}

func (p SnoozePayload) Validate() error {
	if p.SnoozedUntil.IsZero() {
		return fmt.Errorf("%w: snoozed until is required", ErrInvalidPayload)
	}

	return nil
}

type ToggleStatusPayload struct {
	Active bool
}

func (ToggleStatusPayload) Type() ActionType { return ActionToggleStatus }
func (ToggleStatusPayload) isActionPayload() {}
func (ToggleStatusPayload) Validate() error  { return nil }

type DeletePayload struct{}

func (DeletePayload) Type() ActionType { return ActionDelete }
func (DeletePayload) isActionPayload() {}
func (DeletePayload) Validate() error  { return nil }

// UpdatePayload is a partial field set; nil fields are left unchanged.
type UpdatePayload struct {
	TimeOfDay  *string
	DaysOfWeek *[]int
	Timezone   *string
	Dosage     *string
	Notes      *string
}

func (UpdatePayload) Type() ActionType { return ActionUpdate }
func (UpdatePayload) isActionPayload() {}

func (p UpdatePayload) Validate() error {
	if p.TimeOfDay == nil && p.DaysOfWeek == nil && p.Timezone == nil && p.Dosage == nil && p.Notes == nil {
		return ErrEmptyUpdatePayload
	}

	if p.TimeOfDay != nil {
		if _, err := ParseTimeOfDay(*p.TimeOfDay); err != nil {
			return err
		}
	}

	if p.DaysOfWeek != nil {
		if _, err := NewWeekdaySet(*p.DaysOfWeek); err != nil {
			return err
		}
	}

	if p.Timezone != nil {
		if _, err := LoadTimezone(*p.Timezone); err != nil {
			return err
		}
	}

	return nil
}
