//go:build gcloud

package pubsub

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-googlecloud/pkg/googlecloud"
)

type GCloudConfig struct {
	ProjectID string
}

func NewGCloudPublisher(ctx context.Context, cfg GCloudConfig, topic string) (*EventPublisher, error) {
	logger := watermill.NewSlogLogger(slog.Default())

	publisher, err := googlecloud.NewPublisher(
		googlecloud.PublisherConfig{
			ProjectID: cfg.ProjectID,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Cloud publisher: %w", err)
	}

	return NewEventPublisher(publisher, topic), nil
}

// NewGCloudSubscriber names subscriptions "<topic>_<suffix>" so each deployment keeps its own cursor.
func NewGCloudSubscriber(ctx context.Context, cfg GCloudConfig, suffix string) (*googlecloud.Subscriber, error) {
	logger := watermill.NewSlogLogger(slog.Default())

	subscriber, err := googlecloud.NewSubscriber(
		googlecloud.SubscriberConfig{
			ProjectID:                cfg.ProjectID,
			GenerateSubscriptionName: googlecloud.TopicSubscriptionNameWithSuffix(suffix),
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Cloud subscriber: %w", err)
	}

	return subscriber, nil
}
