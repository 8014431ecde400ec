package domain

import (
	"fmt"
	"time"
)

type Frequency string

const (
	FrequencyOnceDaily       Frequency = "once_daily"
	FrequencyTwiceDaily      Frequency = "twice_daily"
	FrequencyThreeTimesDaily Frequency = "three_times_daily"
)

func NewFrequency(f string) (Frequency, error) {
	switch f {
	case string(FrequencyOnceDaily), string(FrequencyTwiceDaily), string(FrequencyThreeTimesDaily):
		return Frequency(f), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFrequency, f)
	}
}

// SlotTimes returns the default daily dose times for the frequency.
func (f Frequency) SlotTimes() []TimeOfDay {
	morning := TimeOfDay{hour: 8}
	afternoon := TimeOfDay{hour: 14}
	evening := TimeOfDay{hour: 20}

	switch f {
	case FrequencyTwiceDaily:
		return []TimeOfDay{morning, evening}
	case FrequencyThreeTimesDaily:
		return []TimeOfDay{morning, afternoon, evening}
	default:
		return []TimeOfDay{morning}
	}
}

// FrequencySchedules expresses a frequency as daily reminder schedules so that frequency-based
// status goes through the same projector as configured reminders.
func FrequencySchedules(f Frequency, loc *time.Location) []ReminderSchedule {
	slots := f.SlotTimes()
	schedules := make([]ReminderSchedule, 0, len(slots))

	for _, t := range slots {
		schedules = append(schedules, ScheduleOf(t, EveryDay(), loc))
	}

	return schedules
}

type DoseStatusKind string

const (
	DoseStatusNone    DoseStatusKind = "none"
	DoseStatusNext    DoseStatusKind = "next"
	DoseStatusDue     DoseStatusKind = "due"
	DoseStatusOverdue DoseStatusKind = "overdue"
)

type DoseSummary struct {
	Kind     DoseStatusKind
	Message  string
	DoseTime time.Time
	Window   DoseWindow
	Next     *NextDose
}

// SummarizeDoses reports the most urgent state across schedules: overdue, then due, then next.
// Only the most recently started slot of today can be due or overdue; recentlyTaken clears it.
func SummarizeDoses(now time.Time, schedules []ReminderSchedule, recentlyTaken bool, width DoseWindowWidth) DoseSummary {
	var (
		latest      time.Time
		latestFound bool
	)

	for _, s := range schedules {
		at, ok := s.TodayOccurrence(now)
		if !ok || now.Before(at.Add(-width.Duration())) {
			continue
		}

		if !latestFound || at.After(latest) {
			latest = at
			latestFound = true
		}
	}

	next := earliestNextDose(now, schedules, recentlyTaken, width)

	if latestFound && !recentlyTaken {
		window := EvaluateDoseWindow(now, latest, width)
		display := latest.Format("15:04")

		if window.IsPast {
			return DoseSummary{
				Kind:     DoseStatusOverdue,
				Message:  "Overdue: " + display,
				DoseTime: latest,
				Window:   window,
				Next:     next,
			}
		}

		return DoseSummary{
			Kind:     DoseStatusDue,
			Message:  "Due at " + display,
			DoseTime: latest,
			Window:   window,
			Next:     next,
		}
	}

	if next == nil {
		return DoseSummary{
			Kind:    DoseStatusNone,
			Message: "No doses scheduled",
		}
	}

	return DoseSummary{
		Kind:     DoseStatusNext,
		Message:  "Next: " + next.Display,
		DoseTime: next.At,
		Window:   EvaluateDoseWindow(now, next.At, width),
		Next:     next,
	}
}

func earliestNextDose(now time.Time, schedules []ReminderSchedule, recentlyTaken bool, width DoseWindowWidth) *NextDose {
	// a dose taken early should not be reported as the next one
	from := now
	if recentlyTaken {
		from = now.Add(width.Duration())
	}

	var earliest *NextDose

	for _, s := range schedules {
		n := nextDoseFrom(now, from, s)
		if n == nil {
			continue
		}

		if earliest == nil || n.At.Before(earliest.At) {
			earliest = n
		}
	}

	return earliest
}
