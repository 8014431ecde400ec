//go:build !gcloud

package tracing

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewProvider creates spans for context propagation and log correlation without exporting them.
func NewProvider(_ context.Context, cfg Config) (*Provider, error) {
	return &Provider{
		tp: sdktrace.NewTracerProvider(
			sdktrace.WithResource(newResource(cfg)),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
		),
	}, nil
}
