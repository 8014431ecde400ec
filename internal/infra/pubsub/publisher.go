package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/KasumiMercury/primind-dose-core/internal/observability/tracing"
)

//go:generate mockgen -source=publisher.go -destination=publisher_mock.go -package=pubsub

const (
	TopicActionNeedsResolution = "offline_action.needs_resolution"
	TopicChanges               = "db.changes"

	eventTypeActionNeedsResolution = "offline_action.needs_resolution"
)

// ActionNeedsResolutionEvent announces a queued action that stopped retrying and waits for the user.
type ActionNeedsResolutionEvent struct {
	ActionID       string    `json:"action_id"`
	ActionType     string    `json:"action_type"`
	ReminderID     string    `json:"reminder_id"`
	UserID         string    `json:"user_id"`
	Attempts       int       `json:"attempts"`
	LastError      string    `json:"last_error,omitempty"`
	QueuedAt       time.Time `json:"queued_at"`
	DeadLetteredAt time.Time `json:"dead_lettered_at"`
}

type Publisher interface {
	PublishActionNeedsResolution(ctx context.Context, event ActionNeedsResolutionEvent) error
	io.Closer
}

// EventPublisher publishes domain events to a single topic over any watermill transport.
type EventPublisher struct {
	publisher message.Publisher
	topic     string
}

func NewEventPublisher(publisher message.Publisher, topic string) *EventPublisher {
	if topic == "" {
		topic = TopicActionNeedsResolution
	}

	return &EventPublisher{
		publisher: publisher,
		topic:     topic,
	}
}

func (p *EventPublisher) PublishActionNeedsResolution(ctx context.Context, event ActionNeedsResolutionEvent) error {
	msg, err := newNeedsResolutionMessage(ctx, event)
	if err != nil {
		return err
	}

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		slog.Error("failed to publish action needs resolution event",
			slog.String("action_id", event.ActionID),
			slog.String("topic", p.topic),
			slog.String("error", err.Error()),
		)

		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.Debug("published action needs resolution event",
		slog.String("action_id", event.ActionID),
		slog.String("message_id", msg.UUID),
	)

	return nil
}

func (p *EventPublisher) Close() error {
	return p.publisher.Close()
}

func newNeedsResolutionMessage(ctx context.Context, event ActionNeedsResolutionEvent) (*message.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", eventTypeActionNeedsResolution)
	msg.Metadata.Set("action_id", event.ActionID)
	msg.Metadata.Set("user_id", event.UserID)
	tracing.InjectToMessage(ctx, msg)

	return msg, nil
}
