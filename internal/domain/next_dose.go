package domain

import (
	"fmt"
	"time"
)

// nextDoseScanDays bounds the forward scan; day 7 is the same weekday one week later.
const nextDoseScanDays = 7

type NextDose struct {
	At           time.Time
	Display      string
	Label        string
	IsToday      bool
	IsTomorrow   bool
	MinutesUntil int
	Countdown    string
}

// CalculateNextDose projects the next occurrence of s strictly after now. It returns nil when
// the schedule has no days.
func CalculateNextDose(now time.Time, s ReminderSchedule) *NextDose {
	return nextDoseFrom(now, now, s)
}

// nextDoseFrom looks for the first occurrence after from and reports it relative to now.
func nextDoseFrom(now, from time.Time, s ReminderSchedule) *NextDose {
	if s.Days().IsEmpty() {
		return nil
	}

	loc := s.Location()
	local := from.In(loc)
	y, m, d := local.Date()

	if today, ok := s.TodayOccurrence(from); ok && today.After(from) {
		return newNextDose(now, today, loc)
	}

	for offset := 1; offset <= nextDoseScanDays; offset++ {
		// noon keeps date arithmetic away from DST transitions
		day := time.Date(y, m, d+offset, 12, 0, 0, 0, loc)
		if !s.Days().Contains(ISOWeekdayOf(day)) {
			continue
		}

		at := s.TimeOfDay().On(day.Year(), day.Month(), day.Day(), loc)

		return newNextDose(now, at, loc)
	}

	return nil
}

func newNextDose(now, at time.Time, loc *time.Location) *NextDose {
	localNow := now.In(loc)
	localAt := at.In(loc)

	minutes := int(localAt.Sub(now) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	y, m, d := localNow.Date()
	tomorrow := time.Date(y, m, d+1, 12, 0, 0, 0, loc)

	isToday := sameDate(localAt, localNow)
	isTomorrow := sameDate(localAt, tomorrow)

	display := localAt.Format("15:04")

	var label string

	switch {
	case isToday:
		label = "Today at " + display
	case isTomorrow:
		label = "Tomorrow at " + display
	default:
		label = fmt.Sprintf("%s at %s", localAt.Weekday(), display)
	}

	return &NextDose{
		At:           localAt,
		Display:      display,
		Label:        label,
		IsToday:      isToday,
		IsTomorrow:   isTomorrow,
		MinutesUntil: minutes,
		Countdown:    FormatCountdown(minutes),
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}

// FormatCountdown renders a non-negative minute count, e.g. "in 3h 5m".
func FormatCountdown(minutes int) string {
	const minutesPerDay = 24 * 60

	switch {
	case minutes <= 0:
		return "now"
	case minutes < 60:
		return fmt.Sprintf("in %dm", minutes)
	case minutes < minutesPerDay:
		h, m := minutes/60, minutes%60
		if m == 0 {
			return fmt.Sprintf("in %dh", h)
		}

		return fmt.Sprintf("in %dh %dm", h, m)
	default:
		d, h := minutes/minutesPerDay, (minutes%minutesPerDay)/60
		if h == 0 {
			return fmt.Sprintf("in %dd", d)
		}

		return fmt.Sprintf("in %dd %dh", d, h)
	}
}
