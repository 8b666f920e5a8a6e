package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/repositories/database"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultEnvFile is loaded when present and no other file is named
const DefaultEnvFile = ".env"

// Store drivers
const (
	StoreDriverSQLite = database.DriverSQLite
	StoreDriverMySQL  = database.DriverMySQL
	StoreDriverRedis  = "redis"
)

var (
	ErrMissingToken  = errors.New("DISCORD_TOKEN is required")
	ErrUnknownDriver = errors.New("unknown STORE_DRIVER")
)

// Config is the process configuration, read from the environment
type Config struct {
	DiscordToken  string `envconfig:"DISCORD_TOKEN"`
	ApplicationID string `envconfig:"APPLICATION_ID"`

	// GuildID registers commands on one server for development
	GuildID string `envconfig:"GUILD_ID"`

	StoreDriver  string `envconfig:"STORE_DRIVER"  default:"sqlite"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"giveaways.db"`
	DatabaseDSN  string `envconfig:"DATABASE_DSN"`

	RedisAddr     string `envconfig:"REDIS_ADDR"     default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"       default:"0"`

	SweepInterval   time.Duration `envconfig:"SWEEP_INTERVAL"   default:"1m"`
	FinalizeTimeout time.Duration `envconfig:"FINALIZE_TIMEOUT" default:"30s"`

	LogLevel  string `envconfig:"LOG_LEVEL"  default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	// MetricsAddr serves /metrics when set, e.g. ":9090"
	MetricsAddr string `envconfig:"METRICS_ADDR"`
}

// Load reads envFile into the environment, then the environment into a
// Config. Variables already set win over the file. An empty envFile loads
// DefaultEnvFile if it exists; a named file must exist.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			envFile = DefaultEnvFile
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings every command needs
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverSQLite:
		if c.DatabasePath == "" {
			return errors.New("DATABASE_PATH is required for the sqlite store")
		}
	case StoreDriverMySQL:
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN is required for the mysql store")
		}
	case StoreDriverRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis store")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.StoreDriver)
	}

	if c.SweepInterval <= 0 {
		return errors.New("SWEEP_INTERVAL must be positive")
	}

	if c.FinalizeTimeout <= 0 {
		return errors.New("FINALIZE_TIMEOUT must be positive")
	}

	return nil
}

// ValidateServe checks the extra settings needed to connect to Discord
func (c *Config) ValidateServe() error {
	if c.DiscordToken == "" {
		return ErrMissingToken
	}
	return nil
}

// DatabaseConfig returns the gorm store settings
func (c *Config) DatabaseConfig() *database.Config {
	return &database.Config{
		Driver: c.StoreDriver,
		Path:   c.DatabasePath,
		DSN:    c.DatabaseDSN,
	}
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying cfg
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext returns the Config stored by WithContext, or nil
func FromContext(ctx context.Context) *Config {
	if ctx == nil {
		return nil
	}
	cfg, _ := ctx.Value(contextKey{}).(*Config)
	return cfg
}
