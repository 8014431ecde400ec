//go:build !gcloud

package main

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/fx"

	"github.com/KasumiMercury/primind-dose-core/internal/config"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/pubsub"
	"github.com/KasumiMercury/primind-dose-core/internal/observability"
	"github.com/KasumiMercury/primind-dose-core/internal/observability/logging"
)

func newEventTransport(lc fx.Lifecycle, cfg *config.Config) (pubsub.Publisher, message.Subscriber, error) {
	if cfg.PubSub.NatsURL == "" {
		slog.Warn("NATS_URL not set, event publishing and change listening disabled")

		return nil, nil, nil
	}

	natsCfg := pubsub.NATSConfig{
		URL: cfg.PubSub.NatsURL,
		Topics: []string{
			cfg.PubSub.NeedsResolutionTopic,
			cfg.PubSub.ChangesTopic,
		},
	}

	if err := pubsub.EnsureNATSStream(context.Background(), natsCfg); err != nil {
		return nil, nil, err
	}

	publisher, err := pubsub.NewNATSPublisher(natsCfg, cfg.PubSub.NeedsResolutionTopic)
	if err != nil {
		return nil, nil, err
	}

	subscriber, err := pubsub.NewNATSSubscriber(natsCfg, cfg.PubSub.ChangesSubscription)
	if err != nil {
		_ = publisher.Close()

		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})

	slog.Info("NATS event transport initialized", "url", cfg.PubSub.NatsURL)

	return publisher, subscriber, nil
}

func telemetryConfig(cfg *config.Config) observability.Config {
	return observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    cfg.Telemetry.ServiceName,
			Version: Version,
		},
		Environment:   logging.Environment(cfg.Telemetry.Environment),
		LogLevel:      cfg.Log.Level,
		SamplingRate:  cfg.Telemetry.SamplingRate,
		DefaultModule: logging.ModuleCore,
	}
}
