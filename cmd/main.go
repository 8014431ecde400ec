package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func init() {
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.SlogLogger{Logger: slog.Default()}
		}),
		configModule,
		observabilityModule,
		databaseModule,
		storeModule,
		eventsModule,
		queueModule,
		entitlementsModule,
		httpModule,
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start dose core", "error", err)

		return 1
	}

	sig := <-app.Done()
	slog.Info("shutdown signal received", "signal", sig.String())

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		slog.Error("failed to stop dose core cleanly", "error", err)

		return 1
	}

	slog.Info("dose core exited properly")

	return 0
}
