package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/repositories/database"
	"github.com/stretchr/testify/suite"
)

var configKeys = []string{
	"DISCORD_TOKEN", "APPLICATION_ID", "GUILD_ID",
	"STORE_DRIVER", "DATABASE_PATH", "DATABASE_DSN",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"SWEEP_INTERVAL", "FINALIZE_TIMEOUT",
	"LOG_LEVEL", "LOG_FORMAT", "METRICS_ADDR",
}

type ConfigTestSuite struct {
	suite.Suite
}

// SetupTest clears every config variable and restores it after the test
func (s *ConfigTestSuite) SetupTest() {
	for _, key := range configKeys {
		original, present := os.LookupEnv(key)
		s.Require().NoError(os.Unsetenv(key))
		s.T().Cleanup(func() {
			if present {
				os.Setenv(key, original)
			} else {
				os.Unsetenv(key)
			}
		})
	}
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestNamedEnvFileMustExist() {
	cfg, err := Load(filepath.Join(s.T().TempDir(), "missing.env"))
	s.Error(err)
	s.Nil(cfg)
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := Load("")
	s.Require().NoError(err)
	s.Equal(StoreDriverSQLite, cfg.StoreDriver)
	s.Equal("giveaways.db", cfg.DatabasePath)
	s.Equal("localhost:6379", cfg.RedisAddr)
	s.Equal(time.Minute, cfg.SweepInterval)
	s.Equal(30*time.Second, cfg.FinalizeTimeout)
	s.Equal("info", cfg.LogLevel)
	s.Equal("console", cfg.LogFormat)
	s.Empty(cfg.MetricsAddr)
	s.ErrorIs(cfg.ValidateServe(), ErrMissingToken)
}

func (s *ConfigTestSuite) TestEnvironment() {
	os.Setenv("DISCORD_TOKEN", "token")
	os.Setenv("STORE_DRIVER", "redis")
	os.Setenv("REDIS_ADDR", "redis:6379")
	os.Setenv("REDIS_DB", "2")
	os.Setenv("SWEEP_INTERVAL", "30s")
	os.Setenv("METRICS_ADDR", ":9090")

	cfg, err := Load("")
	s.Require().NoError(err)
	s.Equal("token", cfg.DiscordToken)
	s.Equal(StoreDriverRedis, cfg.StoreDriver)
	s.Equal("redis:6379", cfg.RedisAddr)
	s.Equal(2, cfg.RedisDB)
	s.Equal(30*time.Second, cfg.SweepInterval)
	s.Equal(":9090", cfg.MetricsAddr)
	s.NoError(cfg.ValidateServe())
}

func (s *ConfigTestSuite) TestEnvFile() {
	envFile := filepath.Join(s.T().TempDir(), "bot.env")
	s.Require().NoError(os.WriteFile(envFile, []byte("DISCORD_TOKEN=from-file\nGUILD_ID=guild-1\nLOG_LEVEL=debug\n"), 0o600))

	// the environment wins over the file
	os.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(envFile)
	s.Require().NoError(err)
	s.Equal("from-file", cfg.DiscordToken)
	s.Equal("guild-1", cfg.GuildID)
	s.Equal("warn", cfg.LogLevel)
}

func (s *ConfigTestSuite) TestInvalidDuration() {
	os.Setenv("SWEEP_INTERVAL", "soon")

	_, err := Load("")
	s.Error(err)
}

func (s *ConfigTestSuite) TestValidate() {
	valid := func() *Config {
		return &Config{
			StoreDriver:     StoreDriverSQLite,
			DatabasePath:    "giveaways.db",
			RedisAddr:       "localhost:6379",
			SweepInterval:   time.Minute,
			FinalizeTimeout: time.Second,
		}
	}

	s.NoError(valid().Validate())

	cfg := valid()
	cfg.StoreDriver = "postgres"
	s.ErrorIs(cfg.Validate(), ErrUnknownDriver)

	cfg = valid()
	cfg.StoreDriver = StoreDriverMySQL
	s.Error(cfg.Validate())
	cfg.DatabaseDSN = "user:pass@tcp(localhost:3306)/giveaways"
	s.NoError(cfg.Validate())

	cfg = valid()
	cfg.DatabasePath = ""
	s.Error(cfg.Validate())

	cfg = valid()
	cfg.SweepInterval = 0
	s.Error(cfg.Validate())

	cfg = valid()
	cfg.FinalizeTimeout = -time.Second
	s.Error(cfg.Validate())
}

func (s *ConfigTestSuite) TestDatabaseConfig() {
	cfg := &Config{StoreDriver: StoreDriverMySQL, DatabasePath: "p", DatabaseDSN: "dsn"}

	s.Equal(&database.Config{Driver: database.DriverMySQL, Path: "p", DSN: "dsn"}, cfg.DatabaseConfig())
}

func (s *ConfigTestSuite) TestContext() {
	cfg := &Config{GuildID: "guild-1"}

	s.Same(cfg, FromContext(WithContext(context.Background(), cfg)))
	s.Nil(FromContext(context.Background()))
}
