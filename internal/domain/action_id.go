package domain

import "github.com/google/uuid"

type ActionID struct {
	value uuid.UUID
}

func NewActionID() ActionID {
	return ActionID{value: uuid.Must(uuid.NewV7())}
}

func ActionIDFromString(s string) (ActionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ActionID{}, ErrInvalidActionID
	}

	return ActionID{value: id}, nil
}

func (a ActionID) String() string {
	return a.value.String()
}

func (a ActionID) UUID() uuid.UUID {
	return a.value
}

func (a ActionID) IsZero() bool {
	return a.value == uuid.Nil
}

func (a ActionID) Equals(other ActionID) bool {
	return a.value == other.value
}
