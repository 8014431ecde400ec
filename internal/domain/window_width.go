package domain

import (
	"errors"
	"time"
)

type DoseWindowWidth struct {
	duration time.Duration
}

const (
	MinDoseWindowWidth     = 1 * time.Minute
	MaxDoseWindowWidth     = 4 * time.Hour
	DefaultDoseWindowWidth = 30 * time.Minute
)

var (
	ErrDoseWindowWidthTooSmall = errors.New("dose window width must be at least 1 minute")
	ErrDoseWindowWidthTooLarge = errors.New("dose window width must not exceed 4 hours")
)

func NewDoseWindowWidth(d time.Duration) (DoseWindowWidth, error) {
	if d < MinDoseWindowWidth {
		return DoseWindowWidth{}, ErrDoseWindowWidthTooSmall
	}

	if d > MaxDoseWindowWidth {
		return DoseWindowWidth{}, ErrDoseWindowWidthTooLarge
	}

	return DoseWindowWidth{duration: d}, nil
}

func MustDoseWindowWidth(d time.Duration) DoseWindowWidth {
	w, err := NewDoseWindowWidth(d)
	if err != nil {
		panic(err)
	}

	return w
}

// DoseWindowWidthFromMinutes treats zero as "use the default". Bounds are checked on the minute
// count so that huge values cannot wrap around when converted to a Duration.
func DoseWindowWidthFromMinutes(minutes int) (DoseWindowWidth, error) {
	if minutes == 0 {
		return MustDoseWindowWidth(DefaultDoseWindowWidth), nil
	}

	if minutes < int(MinDoseWindowWidth/time.Minute) {
		return DoseWindowWidth{}, ErrDoseWindowWidthTooSmall
	}

	if minutes > int(MaxDoseWindowWidth/time.Minute) {
		return DoseWindowWidth{}, ErrDoseWindowWidthTooLarge
	}

	return NewDoseWindowWidth(time.Duration(minutes) * time.Minute)
}

func (w DoseWindowWidth) Duration() time.Duration {
	return w.duration
}

func (w DoseWindowWidth) Minutes() int {
	return int(w.duration / time.Minute)
}

func (w DoseWindowWidth) IsZero() bool {
	return w.duration == 0
}
