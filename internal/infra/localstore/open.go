package localstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-dose-core/internal/config"
)

func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.StoreDriverSQLite:
		store, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}

		slog.Info("local store opened", "driver", cfg.Driver, "path", cfg.SQLitePath)

		return store, nil
	case config.StoreDriverRedis:
		store, err := OpenRedis(ctx, RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}

		slog.Info("local store opened", "driver", cfg.Driver, "addr", cfg.RedisAddr)

		return store, nil
	case config.StoreDriverMemory:
		slog.Warn("using in-memory local store, queued actions will not survive a restart")

		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
