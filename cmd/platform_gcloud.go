//go:build gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/fx"

	"github.com/KasumiMercury/primind-dose-core/internal/config"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/pubsub"
	"github.com/KasumiMercury/primind-dose-core/internal/observability"
	"github.com/KasumiMercury/primind-dose-core/internal/observability/logging"
)

func newEventTransport(lc fx.Lifecycle, cfg *config.Config) (pubsub.Publisher, message.Subscriber, error) {
	ctx := context.Background()
	gcCfg := pubsub.GCloudConfig{
		ProjectID: cfg.PubSub.GCloudProjectID,
	}

	publisher, err := pubsub.NewGCloudPublisher(ctx, gcCfg, cfg.PubSub.NeedsResolutionTopic)
	if err != nil {
		return nil, nil, err
	}

	subscriber, err := pubsub.NewGCloudSubscriber(ctx, gcCfg, cfg.PubSub.ChangesSubscription)
	if err != nil {
		_ = publisher.Close()

		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})

	slog.Info("Google Cloud Pub/Sub event transport initialized",
		"project_id", cfg.PubSub.GCloudProjectID,
	)

	return publisher, subscriber, nil
}

func telemetryConfig(cfg *config.Config) observability.Config {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = cfg.Telemetry.ServiceName
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = cfg.PubSub.GCloudProjectID
	}

	return observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   logging.Environment(cfg.Telemetry.Environment),
		LogLevel:      cfg.Log.Level,
		GCPProjectID:  projectID,
		SamplingRate:  cfg.Telemetry.SamplingRate,
		DefaultModule: logging.ModuleCore,
	}
}
