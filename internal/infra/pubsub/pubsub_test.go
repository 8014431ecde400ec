package pubsub_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/pubsub"
)

func newGoChannel(t *testing.T) *gochannel.GoChannel {
	t.Helper()

	ch := gochannel.NewGoChannel(
		gochannel.Config{Persistent: true},
		watermill.NewSlogLogger(slog.Default()),
	)
	t.Cleanup(func() { _ = ch.Close() })

	return ch
}

func TestEventPublisherPublishActionNeedsResolution(t *testing.T) {
	ch := newGoChannel(t)
	ctx := context.Background()

	messages, err := ch.Subscribe(ctx, "needs_resolution")
	require.NoError(t, err)

	queuedAt := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	event := pubsub.ActionNeedsResolutionEvent{
		ActionID:       uuid.NewString(),
		ActionType:     "update",
		ReminderID:     uuid.NewString(),
		UserID:         uuid.NewString(),
		Attempts:       3,
		LastError:      "reminder not found",
		QueuedAt:       queuedAt,
		DeadLetteredAt: queuedAt.Add(time.Hour),
	}

	publisher := pubsub.NewEventPublisher(ch, "needs_resolution")
	require.NoError(t, publisher.PublishActionNeedsResolution(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()

		assert.Equal(t, "offline_action.needs_resolution", msg.Metadata.Get("event_type"))
		assert.Equal(t, event.ActionID, msg.Metadata.Get("action_id"))
		assert.Equal(t, event.UserID, msg.Metadata.Get("user_id"))

		var decoded pubsub.ActionNeedsResolutionEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, event.ActionID, decoded.ActionID)
		assert.Equal(t, 3, decoded.Attempts)
		assert.True(t, event.QueuedAt.Equal(decoded.QueuedAt))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestEventPublisherDefaultTopic(t *testing.T) {
	ch := newGoChannel(t)
	ctx := context.Background()

	messages, err := ch.Subscribe(ctx, pubsub.TopicActionNeedsResolution)
	require.NoError(t, err)

	publisher := pubsub.NewEventPublisher(ch, "")
	require.NoError(t, publisher.PublishActionNeedsResolution(ctx, pubsub.ActionNeedsResolutionEvent{ActionID: "a1"}))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, "a1", msg.Metadata.Get("action_id"))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

type recordingHandler struct {
	mu       sync.Mutex
	events   []domain.ChangeEvent
	failures int
}

func (h *recordingHandler) HandleChange(_ context.Context, event domain.ChangeEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.failures > 0 {
		h.failures--

		return errors.New("refresh failed")
	}

	h.events = append(h.events, event)

	return nil
}

func (h *recordingHandler) Events() []domain.ChangeEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]domain.ChangeEvent(nil), h.events...)
}

func publishRaw(t *testing.T, ch *gochannel.GoChannel, payload string) {
	t.Helper()

	require.NoError(t, ch.Publish(pubsub.TopicChanges, message.NewMessage(watermill.NewUUID(), []byte(payload))))
}

func startListener(t *testing.T, ch *gochannel.GoChannel, handler pubsub.ChangeHandler) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	listener := pubsub.NewChangeListener(ch, "", handler)
	done := make(chan error, 1)

	go func() {
		done <- listener.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
}

func TestChangeListenerDeliversDecodedChanges(t *testing.T) {
	ch := newGoChannel(t)
	handler := &recordingHandler{}
	userID := uuid.NewString()

	startListener(t, ch, handler)

	publishRaw(t, ch, `not json`)
	publishRaw(t, ch, `{"table":"subscriptions","type":"UPDATE","user_id":"nope"}`)
	publishRaw(t, ch, `{"table":"subscriptions","type":"TRUNCATE","user_id":"`+userID+`"}`)
	publishRaw(t, ch, `{"table":"subscriptions","type":"UPDATE","user_id":"`+userID+`","record_id":"sub_1"}`)

	require.Eventually(t, func() bool {
		return len(handler.Events()) == 1
	}, time.Second, 5*time.Millisecond)

	event := handler.Events()[0]
	assert.Equal(t, domain.TableSubscriptions, event.Table)
	assert.Equal(t, domain.ChangeUpdate, event.Type)
	assert.Equal(t, userID, event.UserID.String())
	assert.Equal(t, "sub_1", event.RecordID)
}

func TestChangeListenerRedeliversAfterHandlerFailure(t *testing.T) {
	ch := newGoChannel(t)
	handler := &recordingHandler{failures: 1}

	startListener(t, ch, handler)

	publishRaw(t, ch, `{"table":"profiles","type":"INSERT","user_id":"`+uuid.NewString()+`"}`)

	require.Eventually(t, func() bool {
		return len(handler.Events()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, domain.ChangeInsert, handler.Events()[0].Type)
}
