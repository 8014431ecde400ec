package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Values that differ per device or environment (DSN, secrets) are required; everything else has
// a default suited to a local core running next to the UI shell.
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Log          LogConfig
	Telemetry    TelemetryConfig
	Store        StoreConfig
	Queue        QueueConfig
	Entitlements EntitlementsConfig
	Auth         AuthConfig
	PubSub       PubSubConfig
	CORS         CORSConfig
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type TelemetryConfig struct {
	Environment  string  `envconfig:"ENV" default:"local"`
	ServiceName  string  `envconfig:"SERVICE_NAME" default:"dose-core"`
	SamplingRate float64 `envconfig:"OTEL_SAMPLING_RATE" default:"1.0"`
}

type ServerConfig struct {
	Host         string        `envconfig:"SERVER_HOST" default:"127.0.0.1"`
	Port         int           `envconfig:"SERVER_PORT" default:"8090"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
}

type DatabaseConfig struct {
	DSN             string        `envconfig:"POSTGRES_DSN" required:"true"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	SlowThreshold   time.Duration `envconfig:"DB_SLOW_THRESHOLD" default:"200ms"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

const (
	StoreDriverSQLite = "sqlite"
	StoreDriverRedis  = "redis"
	StoreDriverMemory = "memory"
)

type StoreConfig struct {
	Driver        string `envconfig:"STORE_DRIVER" default:"sqlite"`
	SQLitePath    string `envconfig:"STORE_SQLITE_PATH" default:"dose-core.db"`
	RedisAddr     string `envconfig:"STORE_REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"STORE_REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"STORE_REDIS_DB" default:"0"`
	KeyPrefix     string `envconfig:"STORE_KEY_PREFIX" default:"dose-core:"`
	QueueKey      string `envconfig:"STORE_QUEUE_KEY" default:"reminder_offline_queue"`
	DeadLetterKey string `envconfig:"STORE_DEAD_LETTER_KEY" default:"reminder_offline_queue_dead_letters"`
}

type QueueConfig struct {
	RetryDelay  time.Duration `envconfig:"QUEUE_RETRY_DELAY" default:"2s"`
	MaxAttempts int           `envconfig:"QUEUE_MAX_ATTEMPTS" default:"10"`
	// MaxAge of 0 disables the age limit.
	MaxAge time.Duration `envconfig:"QUEUE_MAX_AGE" default:"168h"`
	// InitiallyOnline is the connectivity assumed until the shell reports otherwise.
	InitiallyOnline bool `envconfig:"QUEUE_INITIALLY_ONLINE" default:"true"`
}

type EntitlementsConfig struct {
	RefreshInterval time.Duration `envconfig:"ENTITLEMENTS_REFRESH_INTERVAL" default:"5m"`
	SettleDelay     time.Duration `envconfig:"ENTITLEMENTS_SETTLE_DELAY" default:"1s"`
	CatalogPath     string        `envconfig:"ENTITLEMENTS_CATALOG_PATH"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"AUTH_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"AUTH_JWT_ISSUER"`
	Audience  string `envconfig:"AUTH_JWT_AUDIENCE" default:"authenticated"`
}

type PubSubConfig struct {
	NatsURL              string `envconfig:"NATS_URL"`
	GCloudProjectID      string `envconfig:"GCLOUD_PROJECT_ID"`
	ChangesTopic         string `envconfig:"PUBSUB_CHANGES_TOPIC" default:"db.changes"`
	ChangesSubscription  string `envconfig:"PUBSUB_CHANGES_SUBSCRIPTION" default:"dose-core"`
	NeedsResolutionTopic string `envconfig:"PUBSUB_NEEDS_RESOLUTION_TOPIC" default:"offline_action.needs_resolution"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:5173,capacitor://localhost"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Request-ID"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

// Load reads an optional .env file (DOTENV_PATH overrides the location) and then the process
// environment. Variables already set in the environment win over the file.
func Load() (*Config, error) {
	path := os.Getenv("DOTENV_PATH")
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.Server.Port)
	}

	switch c.Telemetry.Environment {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("invalid ENV: %q", c.Telemetry.Environment)
	}

	if c.Telemetry.SamplingRate < 0 || c.Telemetry.SamplingRate > 1 {
		return fmt.Errorf("invalid OTEL_SAMPLING_RATE: %v", c.Telemetry.SamplingRate)
	}

	switch c.Store.Driver {
	case StoreDriverSQLite, StoreDriverRedis, StoreDriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER: %q", c.Store.Driver)
	}

	if c.Queue.RetryDelay <= 0 {
		return fmt.Errorf("invalid QUEUE_RETRY_DELAY: %s", c.Queue.RetryDelay)
	}

	if c.Queue.MaxAttempts < 1 {
		return fmt.Errorf("invalid QUEUE_MAX_ATTEMPTS: %d", c.Queue.MaxAttempts)
	}

	if c.Queue.MaxAge < 0 {
		return fmt.Errorf("invalid QUEUE_MAX_AGE: %s", c.Queue.MaxAge)
	}

	if c.Entitlements.RefreshInterval <= 0 {
		return fmt.Errorf("invalid ENTITLEMENTS_REFRESH_INTERVAL: %s", c.Entitlements.RefreshInterval)
	}

	if c.Entitlements.SettleDelay < 0 {
		return fmt.Errorf("invalid ENTITLEMENTS_SETTLE_DELAY: %s", c.Entitlements.SettleDelay)
	}

	return nil
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
