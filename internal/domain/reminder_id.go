package domain

import (
	"errors"

	"github.com/google/uuid"
)

type ReminderID struct {
	value uuid.UUID
}

var ErrInvalidReminderID = errors.New("invalid reminder ID")

func ReminderIDFromString(s string) (ReminderID, error) {
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return ReminderID{}, ErrInvalidReminderID
	}

	return ReminderID{value: id}, nil
}

func ReminderIDFromUUID(id uuid.UUID) ReminderID {
	return ReminderID{value: id}
}

func (r ReminderID) String() string {
	return r.value.String()
}

func (r ReminderID) UUID() uuid.UUID {
	return r.value
}

func (r ReminderID) IsZero() bool {
	return r.value == uuid.Nil
}

func (r ReminderID) Equals(other ReminderID) bool {
	return r.value == other.value
}
