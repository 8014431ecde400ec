package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/localstore"
)

type payloadJSON struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type queuedActionJSON struct {
	ID            string      `json:"id"`
	ReminderID    string      `json:"reminder_id"`
	UserID        string      `json:"user_id"`
	Payload       payloadJSON `json:"payload"`
	Timestamp     time.Time   `json:"timestamp"`
	Attempts      int         `json:"attempts"`
	LastError     string      `json:"last_error,omitempty"`
	LastAttemptAt *time.Time  `json:"last_attempt_at,omitempty"`
	Status        string      `json:"status"`
}

type markTakenJSON struct {
	MedicationID  string     `json:"medication_id"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	TakenAt       *time.Time `json:"taken_at,omitempty"`
}

type snoozeJSON struct {
	SnoozedUntil time.Time `json:"snoozed_until"`
}

type toggleStatusJSON struct {
	IsActive bool `json:"is_active"`
}

type updateJSON struct {
	TimeOfDay  *string `json:"time_of_day,omitempty"`
	DaysOfWeek *[]int  `json:"days_of_week,omitempty"`
	Timezone   *string `json:"timezone,omitempty"`
	Dosage     *string `json:"dosage,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

func encodePayload(p domain.ActionPayload) (payloadJSON, error) {
	var data interface{}

	switch v := p.(type) {
	case domain.MarkTakenPayload:
		m := markTakenJSON{
			MedicationID:  v.MedicationID.String(),
			ScheduledTime: v.ScheduledTime,
		}
		if !v.TakenAt.IsZero() {
			m.TakenAt = &v.TakenAt
		}

		data = m
	case domain.SnoozePayload:
		data = snoozeJSON{SnoozedUntil: v.SnoozedUntil}
	case domain.ToggleStatusPayload:
		data = toggleStatusJSON{IsActive: v.Active}
	case domain.DeletePayload:
		data = struct{}{}
	case domain.UpdatePayload:
		data = updateJSON{
			TimeOfDay:  v.TimeOfDay,
			DaysOfWeek: v.DaysOfWeek,
			Timezone:   v.Timezone,
			Dosage:     v.Dosage,
			Notes:      v.Notes,
		}
	default:
		return payloadJSON{}, errors.Wrapf(domain.ErrInvalidPayload, "unsupported payload %T", p)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return payloadJSON{}, err
	}

	return payloadJSON{Type: string(p.Type()), Data: raw}, nil
}

func decodePayload(p payloadJSON) (domain.ActionPayload, error) {
	actionType, err := domain.NewActionType(p.Type)
	if err != nil {
		return nil, err
	}

	data := p.Data
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}

	switch actionType {
	case domain.ActionMarkTaken:
		var m markTakenJSON
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}

		medicationID, err := domain.MedicationIDFromString(m.MedicationID)
		if err != nil {
			return nil, err
		}

		payload := domain.MarkTakenPayload{
			MedicationID:  medicationID,
			ScheduledTime: m.ScheduledTime,
		}
		if m.TakenAt != nil {
			payload.TakenAt = *m.TakenAt
		}

		return payload, nil
	case domain.ActionSnooze:
		var s snoozeJSON
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}

		return domain.SnoozePayload{SnoozedUntil: s.SnoozedUntil}, nil
	case domain.ActionToggleStatus:
		var s toggleStatusJSON
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}

		return domain.ToggleStatusPayload{Active: s.IsActive}, nil
	case domain.ActionDelete:
		return domain.DeletePayload{}, nil
	case domain.ActionUpdate:
		var u updateJSON
		if err := json.Unmarshal(data, &u); err != nil {
			return nil, err
		}

		return domain.UpdatePayload{
			TimeOfDay:  u.TimeOfDay,
			DaysOfWeek: u.DaysOfWeek,
			Timezone:   u.Timezone,
			Dosage:     u.Dosage,
			Notes:      u.Notes,
		}, nil
	}

	return nil, errors.Wrapf(domain.ErrInvalidActionType, "%s", p.Type)
}

func encodeAction(a *domain.QueuedAction) (queuedActionJSON, error) {
	payload, err := encodePayload(a.Payload())
	if err != nil {
		return queuedActionJSON{}, err
	}

	out := queuedActionJSON{
		ID:         a.ID().String(),
		ReminderID: a.ReminderID().String(),
		UserID:     a.UserID().String(),
		Payload:    payload,
		Timestamp:  a.Timestamp(),
		Attempts:   a.Attempts(),
		LastError:  a.LastError(),
		Status:     string(a.Status()),
	}

	if last := a.LastAttemptAt(); !last.IsZero() {
		out.LastAttemptAt = &last
	}

	return out, nil
}

func decodeAction(in queuedActionJSON) (*domain.QueuedAction, error) {
	id, err := domain.ActionIDFromString(in.ID)
	if err != nil {
		return nil, err
	}

	reminderID, err := domain.ReminderIDFromString(in.ReminderID)
	if err != nil {
		return nil, err
	}

	userID, err := domain.UserIDFromString(in.UserID)
	if err != nil {
		return nil, err
	}

	payload, err := decodePayload(in.Payload)
	if err != nil {
		return nil, err
	}

	var lastAttemptAt time.Time
	if in.LastAttemptAt != nil {
		lastAttemptAt = *in.LastAttemptAt
	}

	return domain.ReconstituteQueuedAction(
		id,
		reminderID,
		userID,
		payload,
		in.Timestamp,
		in.Attempts,
		in.LastError,
		lastAttemptAt,
		domain.ActionStatus(in.Status),
	), nil
}

type actionQueueStore struct {
	store localstore.Store
	key   string
}

// NewActionQueueStore persists the action list as a JSON array under key.
func NewActionQueueStore(store localstore.Store, key string) domain.ActionQueueStore {
	return &actionQueueStore{
		store: store,
		key:   key,
	}
}

// Load skips entries that no longer decode instead of failing the whole list.
func (s *actionQueueStore) Load(ctx context.Context) ([]*domain.QueuedAction, error) {
	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", s.key)
	}

	if !ok || raw == "" {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errors.Wrapf(err, "decode %s", s.key)
	}

	actions := make([]*domain.QueuedAction, 0, len(entries))

	for i, entry := range entries {
		var in queuedActionJSON
		if err := json.Unmarshal(entry, &in); err != nil {
			slog.Warn("dropping undecodable queued action",
				"key", s.key,
				"index", i,
				"error", err,
			)

			continue
		}

		action, err := decodeAction(in)
		if err != nil {
			slog.Warn("dropping invalid queued action",
				"key", s.key,
				"action_id", in.ID,
				"error", err,
			)

			continue
		}

		actions = append(actions, action)
	}

	return actions, nil
}

func (s *actionQueueStore) Save(ctx context.Context, actions []*domain.QueuedAction) error {
	if len(actions) == 0 {
		return s.Clear(ctx)
	}

	out := make([]queuedActionJSON, 0, len(actions))

	for _, a := range actions {
		enc, err := encodeAction(a)
		if err != nil {
			return errors.Wrapf(err, "encode action %s", a.ID().String())
		}

		out = append(out, enc)
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return errors.Wrapf(err, "encode %s", s.key)
	}

	if err := s.store.Set(ctx, s.key, string(raw)); err != nil {
		return errors.Wrapf(err, "save %s", s.key)
	}

	return nil
}

func (s *actionQueueStore) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, s.key); err != nil {
		return errors.Wrapf(err, "clear %s", s.key)
	}

	return nil
}
