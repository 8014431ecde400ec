package app

import (
	"time"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

type NextDoseOutput struct {
	Found        bool
	At           time.Time
	Display      string
	Label        string
	IsToday      bool
	IsTomorrow   bool
	MinutesUntil int
	Countdown    string
}

func FromNextDose(n *domain.NextDose) NextDoseOutput {
	if n == nil {
		return NextDoseOutput{}
	}

	return NextDoseOutput{
		Found:        true,
		At:           n.At,
		Display:      n.Display,
		Label:        n.Label,
		IsToday:      n.IsToday,
		IsTomorrow:   n.IsTomorrow,
		MinutesUntil: n.MinutesUntil,
		Countdown:    n.Countdown,
	}
}

type DoseWindowOutput struct {
	DoseTime      time.Time
	IsCurrent     bool
	IsPast        bool
	IsDue         bool
	MinutesUntil  int
	WindowMinutes int
}

func FromDoseWindow(doseTime time.Time, w domain.DoseWindow, width domain.DoseWindowWidth) DoseWindowOutput {
	return DoseWindowOutput{
		DoseTime:      doseTime,
		IsCurrent:     w.IsCurrent,
		IsPast:        w.IsPast,
		IsDue:         w.IsDue,
		MinutesUntil:  w.MinutesUntil,
		WindowMinutes: width.Minutes(),
	}
}

type DoseStatusOutput struct {
	Kind     string
	Message  string
	DoseTime time.Time
	Window   DoseWindowOutput
	Next     NextDoseOutput
}

func FromDoseSummary(s domain.DoseSummary, width domain.DoseWindowWidth) DoseStatusOutput {
	out := DoseStatusOutput{
		Kind:    string(s.Kind),
		Message: s.Message,
		Next:    FromNextDose(s.Next),
	}

	if s.Kind != domain.DoseStatusNone {
		out.DoseTime = s.DoseTime
		out.Window = FromDoseWindow(s.DoseTime, s.Window, width)
	}

	return out
}
