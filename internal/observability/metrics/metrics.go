package metrics

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

const meterName = "github.com/KasumiMercury/primind-dose-core"

type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}

type Provider struct {
	mp *sdkmetric.MeterProvider
}

func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.mp
}

func (p *Provider) Meter() metric.Meter {
	return p.mp.Meter(meterName)
}

func (p *Provider) Shutdown(ctx context.Context) error {
	return p.mp.Shutdown(ctx)
}

func newResource(cfg Config) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	)
}

// NewProviderWithReader is used by tests to collect what was recorded.
func NewProviderWithReader(cfg Config, reader sdkmetric.Reader) *Provider {
	return &Provider{
		mp: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(reader),
			sdkmetric.WithResource(newResource(cfg)),
		),
	}
}

type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("HTTP requests served"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requests: requests,
		duration: duration,
	}, nil
}

func (m *HTTPMetrics) Record(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.String("http.status_code", strconv.Itoa(status)),
	)

	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}

// QueueMetrics counts replay outcomes per action type and reports the pending and
// needs-resolution sizes as gauges.
type QueueMetrics struct {
	meter   metric.Meter
	replays metric.Int64Counter
	gauges  metric.Registration
}

func NewQueueMetrics(meter metric.Meter) (*QueueMetrics, error) {
	replays, err := meter.Int64Counter("offline_queue.replays",
		metric.WithDescription("Queued actions executed, by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &QueueMetrics{
		meter:   meter,
		replays: replays,
	}, nil
}

func (m *QueueMetrics) RecordReplay(ctx context.Context, actionType string, outcome string) {
	m.replays.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action_type", actionType),
		attribute.String("outcome", outcome),
	))
}

// ObserveSizes registers gauges read from sizes on every collection.
func (m *QueueMetrics) ObserveSizes(sizes func(ctx context.Context) (pending, needsResolution int)) error {
	pending, err := m.meter.Int64ObservableGauge("offline_queue.pending",
		metric.WithDescription("Actions waiting to be replayed"),
	)
	if err != nil {
		return err
	}

	deadLetters, err := m.meter.Int64ObservableGauge("offline_queue.needs_resolution",
		metric.WithDescription("Actions that stopped retrying"),
	)
	if err != nil {
		return err
	}

	reg, err := m.meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		p, n := sizes(ctx)
		o.ObserveInt64(pending, int64(p))
		o.ObserveInt64(deadLetters, int64(n))

		return nil
	}, pending, deadLetters)
	if err != nil {
		return err
	}

	m.gauges = reg

	return nil
}

func (m *QueueMetrics) Close() error {
	if m.gauges == nil {
		return nil
	}

	return m.gauges.Unregister()
}
