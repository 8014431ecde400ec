package domain

import (
	"fmt"
	"time"
)

// ISOWeekday numbers days 1 (Monday) through 7 (Sunday).
type ISOWeekday int

const (
	Monday ISOWeekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func ISOWeekdayOf(t time.Time) ISOWeekday {
	if t.Weekday() == time.Sunday {
		return Sunday
	}

	return ISOWeekday(t.Weekday())
}

func (w ISOWeekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w ISOWeekday) String() string {
	return time.Weekday(int(w) % 7).String()
}

type WeekdaySet struct {
	bits uint8
}

func NewWeekdaySet(days []int) (WeekdaySet, error) {
	var s WeekdaySet

	for _, d := range days {
		w := ISOWeekday(d)
		if !w.Valid() {
			return WeekdaySet{}, fmt.Errorf("%w: %d", ErrInvalidWeekday, d)
		}

		s.bits |= 1 << uint(w)
	}

	return s, nil
}

func EveryDay() WeekdaySet {
	s, _ := NewWeekdaySet([]int{1, 2, 3, 4, 5, 6, 7})

	return s
}

func (s WeekdaySet) Contains(w ISOWeekday) bool {
	return w.Valid() && s.bits&(1<<uint(w)) != 0
}

func (s WeekdaySet) IsEmpty() bool {
	return s.bits == 0
}

// Ints returns the set in ascending order.
func (s WeekdaySet) Ints() []int {
	days := make([]int, 0, 7)

	for w := Monday; w <= Sunday; w++ {
		if s.Contains(w) {
			days = append(days, int(w))
		}
	}

	return days
}
