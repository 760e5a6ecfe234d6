package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := FromEnv()
	cfg.JWT.Secret = "access"
	cfg.JWT.RefreshSecret = "refresh"
	return cfg
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CLIENT_SEED_URL", "")
	t.Setenv("CLIENT_SEED_BASE_URL", "")
	t.Setenv("DASHBOARD_POLL_INTERVAL_MS", "")
	t.Setenv("LOGIN_MAX_ATTEMPTS_PER_USER", "")
	t.Setenv("LOGIN_USER_WINDOW_MINUTES", "")
	t.Setenv("HOUSEKEEPING_ENABLED", "")
	t.Setenv("HOUSEKEEPING_SESSION_PRUNE_SCHEDULE", "")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "http://localhost:8000/data/clients.json", cfg.Bootstrap.ClientSeedURL)
	assert.Equal(t, 2*time.Second, cfg.Dashboard.PollInterval)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5, cfg.Security.MaxLoginAttemptsPerUser)
	assert.Equal(t, 15*time.Minute, cfg.Security.LoginUserWindow)
	assert.True(t, cfg.Housekeeping.Enabled)
	assert.Equal(t, "0 30 3 * * *", cfg.Housekeeping.SessionPruneSchedule)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("CLIENT_SEED_BASE_URL", "https://hotel.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, "https://hotel.example.com/data/clients.json", cfg.Bootstrap.ClientSeedURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestValidate(t *testing.T) {
	t.Run("Valid memory config", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"Missing JWT secret", func(c *Config) { c.JWT.Secret = "" }, "JWT_SECRET is required"},
		{"Missing refresh secret", func(c *Config) { c.JWT.RefreshSecret = "" }, "JWT_REFRESH_SECRET is required"},
		{"Postgres without URL", func(c *Config) {
			c.Storage.Driver = StoragePostgres
			c.Database.URL = ""
		}, "DATABASE_URL is required"},
		{"Unknown driver", func(c *Config) { c.Storage.Driver = "sqlite" }, "invalid storage driver"},
		{"Username without hash", func(c *Config) {
			c.Admin.Username = "frontdesk"
			c.Admin.PasswordHash = ""
		}, "must be set together"},
		{"Zero poll interval", func(c *Config) { c.Dashboard.PollInterval = 0 }, "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
