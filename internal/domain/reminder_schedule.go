package domain

import "time"

// ReminderSchedule is the unit the dose projector reasons about: a wall-clock time recurring on
// a set of weekdays in one timezone.
type ReminderSchedule struct {
	timeOfDay TimeOfDay
	days      WeekdaySet
	location  *time.Location
}

func NewReminderSchedule(timeOfDay string, daysOfWeek []int, timezone string) (ReminderSchedule, error) {
	t, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return ReminderSchedule{}, err
	}

	days, err := NewWeekdaySet(daysOfWeek)
	if err != nil {
		return ReminderSchedule{}, err
	}

	loc, err := LoadTimezone(timezone)
	if err != nil {
		return ReminderSchedule{}, err
	}

	return ReminderSchedule{timeOfDay: t, days: days, location: loc}, nil
}

func ScheduleOf(timeOfDay TimeOfDay, days WeekdaySet, loc *time.Location) ReminderSchedule {
	if loc == nil {
		loc = time.UTC
	}

	return ReminderSchedule{timeOfDay: timeOfDay, days: days, location: loc}
}

func (s ReminderSchedule) TimeOfDay() TimeOfDay {
	return s.timeOfDay
}

func (s ReminderSchedule) Days() WeekdaySet {
	return s.days
}

func (s ReminderSchedule) Location() *time.Location {
	if s.location == nil {
		return time.UTC
	}

	return s.location
}

// TodayOccurrence returns today's dose instant in the schedule's zone when today is a scheduled day.
func (s ReminderSchedule) TodayOccurrence(now time.Time) (time.Time, bool) {
	local := now.In(s.Location())
	if !s.days.Contains(ISOWeekdayOf(local)) {
		return time.Time{}, false
	}

	y, m, d := local.Date()

	return s.timeOfDay.On(y, m, d, s.Location()), true
}
