package domain

import (
	"math"
	"time"
)

// DoseWindow describes where now sits relative to [dose-width, dose+width].
// MinutesUntil is negative once the dose time has passed.
type DoseWindow struct {
	IsCurrent    bool
	IsPast       bool
	IsDue        bool
	MinutesUntil int
}

func EvaluateDoseWindow(now, doseTime time.Time, width DoseWindowWidth) DoseWindow {
	start := doseTime.Add(-width.Duration())
	end := doseTime.Add(width.Duration())

	return DoseWindow{
		IsCurrent:    !now.Before(start) && !now.After(end),
		IsPast:       now.After(end),
		IsDue:        !now.Before(start),
		MinutesUntil: int(math.Floor(doseTime.Sub(now).Minutes())),
	}
}
