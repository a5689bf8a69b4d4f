package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s"`

	Auth    AuthConfig
	Session SessionConfig
	Catalog CatalogConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET, required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,  default=1h"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL, default=http://localhost:8080"`
}

type SessionConfig struct {
	CookieName  string        `env:"SESSION_COOKIE,   default=sid"`
	IdleTTL     time.Duration `env:"SESSION_IDLE_TTL, default=30m"`
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL,     default=720h"`
}

type CatalogConfig struct {
	PageSize        int `env:"CATALOG_PAGE_SIZE, default=6"`
	FeedbackWorkers int `env:"FEEDBACK_WORKERS,  default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=travel_site"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// IsDevelopment reports whether the process runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Catalog.PageSize <= 0 {
		return nil, fmt.Errorf("config: CATALOG_PAGE_SIZE must be positive, got %d", cfg.Catalog.PageSize)
	}
	if cfg.Session.IdleTTL <= 0 {
		return nil, fmt.Errorf("config: SESSION_IDLE_TTL must be positive, got %s", cfg.Session.IdleTTL)
	}
	return &cfg, nil
}
