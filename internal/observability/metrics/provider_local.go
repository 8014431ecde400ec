//go:build !gcloud

package metrics

import (
	"context"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// NewProvider has no exporter on device; instruments are live but nothing leaves the process.
func NewProvider(_ context.Context, cfg Config) (*Provider, error) {
	return &Provider{
		mp: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(newResource(cfg)),
		),
	}, nil
}
