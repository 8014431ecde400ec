package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/KasumiMercury/primind-dose-core/internal/app"
	"github.com/KasumiMercury/primind-dose-core/internal/config"
	"github.com/KasumiMercury/primind-dose-core/internal/domain"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/catalog"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/connectivity"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/handler"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/localstore"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/pubsub"
	"github.com/KasumiMercury/primind-dose-core/internal/infra/repository"
	"github.com/KasumiMercury/primind-dose-core/internal/observability"
	"github.com/KasumiMercury/primind-dose-core/internal/observability/logging"
	"github.com/KasumiMercury/primind-dose-core/internal/observability/metrics"
	"github.com/KasumiMercury/primind-dose-core/internal/observability/middleware"
	"github.com/KasumiMercury/primind-dose-core/internal/pkg/clock"
)

var configModule = fx.Module("config",
	fx.Provide(loadConfig),
)

var observabilityModule = fx.Module("observability",
	fx.Provide(
		newObservability,
		newHTTPMetrics,
		newQueueMetrics,
	),
	// Resolved eagerly so that every later constructor logs through the configured handler.
	fx.Invoke(func(*observability.Resources) {}),
)

var databaseModule = fx.Module("database",
	fx.Provide(
		openDatabase,
		repository.NewReminderRepository,
		repository.NewSubscriptionRepository,
	),
)

var storeModule = fx.Module("store",
	fx.Provide(
		openStore,
		newQueueStores,
	),
)

var eventsModule = fx.Module("events",
	fx.Provide(newEventTransport),
)

var queueModule = fx.Module("queue",
	fx.Provide(
		newMonitor,
		app.NewReminderActionExecutor,
		newOfflineQueue,
	),
)

var entitlementsModule = fx.Module("entitlements",
	fx.Provide(newEntitlementsService),
	fx.Invoke(runChangeListener),
)

var httpModule = fx.Module("http",
	fx.Provide(
		newAuthenticator,
		newRouter,
	),
	fx.Invoke(startServer),
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.PubSub.Validate(); err != nil {
		return nil, fmt.Errorf("pubsub configuration error: %w", err)
	}

	return cfg, nil
}

func newObservability(lc fx.Lifecycle, cfg *config.Config) (*observability.Resources, error) {
	obs, err := observability.Init(context.Background(), telemetryConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: obs.Shutdown,
	})

	return obs, nil
}

func newHTTPMetrics(obs *observability.Resources) (*metrics.HTTPMetrics, error) {
	return metrics.NewHTTPMetrics(obs.Metrics.Meter())
}

func newQueueMetrics(lc fx.Lifecycle, obs *observability.Resources) (*metrics.QueueMetrics, error) {
	m, err := metrics.NewQueueMetrics(obs.Metrics.Meter())
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return m.Close()
		},
	})

	return m, nil
}

func openDatabase(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: logging.NewGormLogger(cfg.Database.SlowThreshold, cfg.Log.Level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(repository.AllModels()...); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		slog.Info("database schema migrated")
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return sqlDB.Close()
		},
	})

	return db, nil
}

func openStore(lc fx.Lifecycle, cfg *config.Config) (localstore.Store, error) {
	store, err := localstore.Open(context.Background(), cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

type queueStores struct {
	fx.Out

	Pending     domain.ActionQueueStore `name:"pending"`
	DeadLetters domain.ActionQueueStore `name:"dead_letters"`
}

func newQueueStores(store localstore.Store, cfg *config.Config) queueStores {
	return queueStores{
		Pending:     repository.NewActionQueueStore(store, cfg.Store.QueueKey),
		DeadLetters: repository.NewActionQueueStore(store, cfg.Store.DeadLetterKey),
	}
}

func newMonitor(cfg *config.Config) *connectivity.Monitor {
	return connectivity.NewMonitor(cfg.Queue.InitiallyOnline)
}

type queueParams struct {
	fx.In

	Lifecycle   fx.Lifecycle
	Config      *config.Config
	Pending     domain.ActionQueueStore `name:"pending"`
	DeadLetters domain.ActionQueueStore `name:"dead_letters"`
	Executor    app.ActionExecutor
	Monitor     *connectivity.Monitor
	Publisher   pubsub.Publisher `optional:"true"`
	Metrics     *metrics.QueueMetrics
}

func newOfflineQueue(p queueParams) (*app.OfflineQueue, error) {
	q := app.NewOfflineQueue(
		p.Pending,
		p.DeadLetters,
		p.Executor,
		p.Monitor,
		p.Publisher,
		clock.NewRealClock(),
		app.QueueConfig{
			RetryDelay:  p.Config.Queue.RetryDelay,
			MaxAttempts: p.Config.Queue.MaxAttempts,
			MaxAge:      p.Config.Queue.MaxAge,
		},
		app.WithReplayRecorder(p.Metrics),
	)

	err := p.Metrics.ObserveSizes(func(ctx context.Context) (int, int) {
		stats := q.Stats(ctx)

		return stats.Pending, stats.NeedsResolution
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register queue gauges: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go q.Initialize(logging.WithModule(runCtx, logging.ModuleQueue))

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			q.Close()

			return nil
		},
	})

	return q, nil
}

func newEntitlementsService(
	lc fx.Lifecycle,
	cfg *config.Config,
	repo domain.SubscriptionRepository,
) (*app.EntitlementsService, error) {
	plans, err := catalog.Load(cfg.Entitlements.CatalogPath)
	if err != nil {
		return nil, err
	}

	svc := app.NewEntitlementsService(repo, plans, clock.NewRealClock(), app.EntitlementsConfig{
		RefreshInterval: cfg.Entitlements.RefreshInterval,
		SettleDelay:     cfg.Entitlements.SettleDelay,
	})

	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go svc.Run(logging.WithModule(runCtx, logging.ModuleEntitlements))

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			svc.Close()

			return nil
		},
	})

	return svc, nil
}

type listenerParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Config     *config.Config
	Subscriber message.Subscriber `optional:"true"`
	Service    *app.EntitlementsService
}

func runChangeListener(p listenerParams) {
	if p.Subscriber == nil {
		slog.Warn("no change subscriber configured, entitlements rely on periodic refresh")

		return
	}

	listener := pubsub.NewChangeListener(p.Subscriber, p.Config.PubSub.ChangesTopic, p.Service)
	runCtx, cancel := context.WithCancel(context.Background())

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := listener.Run(runCtx); err != nil {
					slog.Error("change listener stopped", "error", err)
				}
			}()

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()

			return listener.Close()
		},
	})
}

func newAuthenticator(cfg *config.Config) *handler.Authenticator {
	return handler.NewAuthenticator(handler.AuthConfig{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
	})
}

type routerParams struct {
	fx.In

	Config      *config.Config
	HTTPMetrics *metrics.HTTPMetrics
	Auth        *handler.Authenticator
	Queue       *app.OfflineQueue
	Monitor     *connectivity.Monitor
	Gate        *app.EntitlementsService
}

func newRouter(p routerParams) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Gin(middleware.GinConfig{
			SkipPaths: []string{"/ping"},
			ModuleResolver: middleware.ModuleByPrefix("/api/v1", map[string]logging.Module{
				"queue":        logging.ModuleQueue,
				"connectivity": logging.ModuleQueue,
				"doses":        logging.ModuleDoses,
				"entitlements": logging.ModuleEntitlements,
				"subscription": logging.ModuleEntitlements,
				"session":      logging.ModuleEntitlements,
			}, logging.ModuleCore),
			TracerName:  "dose-core/http",
			HTTPMetrics: p.HTTPMetrics,
		}),
		middleware.PanicRecoveryGin(),
		cors.New(cors.Config{
			AllowOrigins:     p.Config.CORS.AllowOrigins,
			AllowMethods:     p.Config.CORS.AllowMethods,
			AllowHeaders:     p.Config.CORS.AllowHeaders,
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: p.Config.CORS.AllowCredentials,
			MaxAge:           p.Config.CORS.MaxAge,
		}),
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := router.Group("/api/v1")
	handler.NewQueueHandler(p.Queue, p.Monitor, p.Config.CORS.AllowOrigins).RegisterRoutes(v1, p.Auth)
	handler.NewDoseHandler(app.NewDoseUseCase(clock.NewRealClock())).RegisterRoutes(v1)
	handler.NewEntitlementsHandler(p.Gate, p.Auth).RegisterRoutes(v1)

	return router
}

func startServer(lc fx.Lifecycle, cfg *config.Config, router *gin.Engine) {
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
			}

			slog.Info("starting server", "address", srv.Addr, "mode", gin.Mode())

			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("server exited with error", "error", err)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			slog.Info("shutting down server")

			return srv.Shutdown(ctx)
		},
	})
}
