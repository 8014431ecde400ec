package observability

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/KasumiMercury/primind-dose-core/internal/observability/logging"
	"github.com/KasumiMercury/primind-dose-core/internal/observability/metrics"
	"github.com/KasumiMercury/primind-dose-core/internal/observability/tracing"
)

type Config struct {
	ServiceInfo   logging.ServiceInfo
	Environment   logging.Environment
	LogLevel      string
	GCPProjectID  string
	SamplingRate  float64
	DefaultModule logging.Module
}

type Resources struct {
	Tracing *tracing.Provider
	Metrics *metrics.Provider
}

// Init installs the slog default logger and the global OpenTelemetry providers.
func Init(ctx context.Context, cfg Config) (*Resources, error) {
	slog.SetDefault(logging.NewLogger(os.Stdout, logging.Config{
		Level:         cfg.LogLevel,
		ServiceInfo:   cfg.ServiceInfo,
		Environment:   cfg.Environment,
		GCPProjectID:  cfg.GCPProjectID,
		DefaultModule: cfg.DefaultModule,
	}))

	tp, err := tracing.NewProvider(ctx, tracing.Config{
		ServiceName:    cfg.ServiceInfo.Name,
		ServiceVersion: cfg.ServiceInfo.Version,
		Environment:    string(cfg.Environment),
		SamplingRate:   cfg.SamplingRate,
	})
	if err != nil {
		return nil, err
	}

	mp, err := metrics.NewProvider(ctx, metrics.Config{
		ServiceName:    cfg.ServiceInfo.Name,
		ServiceVersion: cfg.ServiceInfo.Version,
		Environment:    string(cfg.Environment),
	})
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx))
	}

	otel.SetTracerProvider(tp.TracerProvider())
	otel.SetMeterProvider(mp.MeterProvider())
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.Info("observability initialized",
		"service", cfg.ServiceInfo.Name,
		"env", string(cfg.Environment),
	)

	return &Resources{
		Tracing: tp,
		Metrics: mp,
	}, nil
}

func (r *Resources) Shutdown(ctx context.Context) error {
	return errors.Join(
		r.Metrics.Shutdown(ctx),
		r.Tracing.Shutdown(ctx),
	)
}
