package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
	"github.com/KasumiMercury/primind-dose-core/internal/observability/logging"
	"github.com/KasumiMercury/primind-dose-core/internal/observability/tracing"
)

// ChangeHandler receives decoded realtime row changes.
type ChangeHandler interface {
	HandleChange(ctx context.Context, event domain.ChangeEvent) error
}

type changeJSON struct {
	Table    string `json:"table"`
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	RecordID string `json:"record_id"`
}

// ChangeListener feeds row-change messages from one topic into a ChangeHandler. Undecodable
// messages are acked and dropped; handler failures are nacked for redelivery.
type ChangeListener struct {
	subscriber message.Subscriber
	topic      string
	handler    ChangeHandler
}

func NewChangeListener(subscriber message.Subscriber, topic string, handler ChangeHandler) *ChangeListener {
	if topic == "" {
		topic = TopicChanges
	}

	return &ChangeListener{
		subscriber: subscriber,
		topic:      topic,
		handler:    handler,
	}
}

// Run blocks until ctx is done or the subscription channel closes.
func (l *ChangeListener) Run(ctx context.Context) error {
	messages, err := l.subscriber.Subscribe(ctx, l.topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", l.topic, err)
	}

	slog.Info("listening for row changes",
		slog.String("topic", l.topic),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			l.handle(ctx, msg)
		}
	}
}

func (l *ChangeListener) Close() error {
	return l.subscriber.Close()
}

func (l *ChangeListener) handle(ctx context.Context, msg *message.Message) {
	ctx = tracing.ExtractFromMessage(ctx, msg)
	ctx = logging.WithModule(ctx, logging.ModuleEntitlements)

	event, err := decodeChange(msg.Payload)
	if err != nil {
		slog.WarnContext(ctx, "dropping undecodable change message",
			slog.String("message_id", msg.UUID),
			slog.String("error", err.Error()),
		)
		msg.Ack()

		return
	}

	if err := l.handler.HandleChange(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to handle change",
			slog.String("message_id", msg.UUID),
			slog.String("table", event.Table),
			slog.String("error", err.Error()),
		)
		msg.Nack()

		return
	}

	msg.Ack()
}

func decodeChange(payload []byte) (domain.ChangeEvent, error) {
	var raw changeJSON
	if err := json.Unmarshal(payload, &raw); err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("failed to unmarshal change: %w", err)
	}

	if raw.Table == "" {
		return domain.ChangeEvent{}, errors.New("change without table")
	}

	userID, err := domain.UserIDFromString(raw.UserID)
	if err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("change with invalid user id: %w", err)
	}

	changeType := domain.ChangeType(raw.Type)
	switch changeType {
	case domain.ChangeInsert, domain.ChangeUpdate, domain.ChangeDelete:
	default:
		return domain.ChangeEvent{}, fmt.Errorf("unknown change type %q", raw.Type)
	}

	return domain.ChangeEvent{
		Table:    raw.Table,
		Type:     changeType,
		UserID:   userID,
		RecordID: raw.RecordID,
	}, nil
}
