package domain

import "fmt"

type ActionType string

const (
	ActionMarkTaken    ActionType = "mark_taken"
	ActionSnooze       ActionType = "snooze"
	ActionToggleStatus ActionType = "toggle_status"
	ActionDelete       ActionType = "delete"
	ActionUpdate       ActionType = "update"
)

func NewActionType(t string) (ActionType, error) {
	switch t {
	case string(ActionMarkTaken), string(ActionSnooze), string(ActionToggleStatus),
		string(ActionDelete), string(ActionUpdate):
		return ActionType(t), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidActionType, t)
	}
}

type ActionStatus string

const (
	ActionStatusPending         ActionStatus = "pending"
	ActionStatusNeedsResolution ActionStatus = "needs_resolution"
)
