package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/localstore"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/repository"
)

const testQueueKey = "reminder_offline_queue"

type actionSnapshot struct {
	ID            string
	Type          domain.ActionType
	ReminderID    string
	UserID        string
	Payload       domain.ActionPayload
	Timestamp     time.Time
	Attempts      int
	LastError     string
	LastAttemptAt time.Time
	Status        domain.ActionStatus
}

func snapshot(a *domain.QueuedAction) actionSnapshot {
	return actionSnapshot{
		ID:            a.ID().String(),
		Type:          a.Type(),
		ReminderID:    a.ReminderID().String(),
		UserID:        a.UserID().String(),
		Payload:       a.Payload(),
		Timestamp:     a.Timestamp(),
		Attempts:      a.Attempts(),
		LastError:     a.LastError(),
		LastAttemptAt: a.LastAttemptAt(),
		Status:        a.Status(),
	}
}

func newTestAction(t *testing.T, payload domain.ActionPayload) *domain.QueuedAction {
	t.Helper()

	userID, err := domain.UserIDFromUUID(uuid.New())
	require.NoError(t, err)

	a, err := domain.NewQueuedAction(
		domain.ReminderIDFromUUID(uuid.Must(uuid.NewV7())),
		userID,
		payload,
		time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	return a
}

func TestActionQueueStoreSaveLoadSuccess(t *testing.T) {
	tod := "08:30"
	days := []int{1, 3, 5}
	scheduled := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	failed := newTestAction(t, domain.SnoozePayload{SnoozedUntil: scheduled.Add(15 * time.Minute)})
	failed.RecordFailure(assert.AnError, scheduled.Add(time.Hour))
	failed.MarkNeedsResolution()

	actions := []*domain.QueuedAction{
		newTestAction(t, domain.MarkTakenPayload{
			MedicationID:  domain.MedicationIDFromUUID(uuid.Must(uuid.NewV7())),
			ScheduledTime: scheduled,
			TakenAt:       scheduled.Add(2 * time.Minute),
		}),
		failed,
		newTestAction(t, domain.ToggleStatusPayload{Active: false}),
		newTestAction(t, domain.DeletePayload{}),
		newTestAction(t, domain.UpdatePayload{TimeOfDay: &tod, DaysOfWeek: &days}),
	}

	store := repository.NewActionQueueStore(localstore.NewMemoryStore(), testQueueKey)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, actions))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, len(actions))

	for i := range actions {
		if diff := cmp.Diff(snapshot(actions[i]), snapshot(loaded[i]), cmp.AllowUnexported(domain.MedicationID{})); diff != "" {
			t.Errorf("action %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestActionQueueStoreWireFormat(t *testing.T) {
	mem := localstore.NewMemoryStore()
	store := repository.NewActionQueueStore(mem, testQueueKey)
	ctx := context.Background()

	a := newTestAction(t, domain.ToggleStatusPayload{Active: true})
	require.NoError(t, store.Save(ctx, []*domain.QueuedAction{a}))

	raw, ok, err := mem.Get(ctx, testQueueKey)
	require.NoError(t, err)
	require.True(t, ok)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded, 1)

	payload, ok := decoded[0]["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "toggle_status", payload["type"])
	assert.Equal(t, map[string]interface{}{"is_active": true}, payload["data"])
	assert.Equal(t, "pending", decoded[0]["status"])
}

func TestActionQueueStoreLoadEmpty(t *testing.T) {
	store := repository.NewActionQueueStore(localstore.NewMemoryStore(), testQueueKey)

	loaded, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestActionQueueStoreLoadSkipsInvalidEntries(t *testing.T) {
	mem := localstore.NewMemoryStore()
	store := repository.NewActionQueueStore(mem, testQueueKey)
	ctx := context.Background()

	valid := newTestAction(t, domain.DeletePayload{})
	require.NoError(t, store.Save(ctx, []*domain.QueuedAction{valid}))

	raw, _, err := mem.Get(ctx, testQueueKey)
	require.NoError(t, err)

	var entries []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))

	entries = append(entries,
		json.RawMessage(`{"id":"not-a-uuid","payload":{"type":"delete"}}`),
		json.RawMessage(`{"id":"`+uuid.NewString()+`","reminder_id":"`+uuid.NewString()+`","user_id":"`+uuid.NewString()+`","payload":{"type":"teleport","data":{}}}`),
		json.RawMessage(`42`),
	)

	tampered, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, testQueueKey, string(tampered)))

	loaded, err := store.Load(ctx)

	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, loaded[0].ID().Equals(valid.ID()))
}

func TestActionQueueStoreLoadError(t *testing.T) {
	mem := localstore.NewMemoryStore()
	store := repository.NewActionQueueStore(mem, testQueueKey)
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, testQueueKey, "{not json"))

	_, err := store.Load(ctx)
	assert.Error(t, err)

	require.NoError(t, mem.Close())

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, localstore.ErrClosed)
}

func TestActionQueueStoreSaveEmptyClears(t *testing.T) {
	mem := localstore.NewMemoryStore()
	store := repository.NewActionQueueStore(mem, testQueueKey)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []*domain.QueuedAction{newTestAction(t, domain.DeletePayload{})}))
	require.NoError(t, store.Save(ctx, nil))

	_, ok, err := mem.Get(ctx, testQueueKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, []*domain.QueuedAction{newTestAction(t, domain.DeletePayload{})}))
	require.NoError(t, store.Clear(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
