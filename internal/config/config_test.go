package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	env := map[string]string{
		"MEMWARZZ_PRIMARY.ENV":                    "development",
		"MEMWARZZ_SERVER.PORT":                    "8080",
		"MEMWARZZ_SERVER.READ_TIMEOUT":            "30",
		"MEMWARZZ_SERVER.WRITE_TIMEOUT":           "30",
		"MEMWARZZ_SERVER.IDLE_TIMEOUT":            "60",
		"MEMWARZZ_SERVER.CORS_ALLOWED_ORIGINS":    "http://localhost:3000, https://memwarzz.app",
		"MEMWARZZ_DATABASE.HOST":                  "localhost",
		"MEMWARZZ_DATABASE.PORT":                  "5432",
		"MEMWARZZ_DATABASE.USER":                  "postgres",
		"MEMWARZZ_DATABASE.PASSWORD":              "postgres",
		"MEMWARZZ_DATABASE.NAME":                  "memwarzz",
		"MEMWARZZ_DATABASE.SSL_MODE":              "disable",
		"MEMWARZZ_DATABASE.MAX_OPEN_CONNS":        "25",
		"MEMWARZZ_DATABASE.MAX_IDLE_CONNS":        "25",
		"MEMWARZZ_DATABASE.CONN_MAX_LIFETIME":     "300",
		"MEMWARZZ_DATABASE.CONN_MAX_IDLE_TIME":    "300",
		"MEMWARZZ_REDIS.ADDRESS":                  "localhost:6379",
		"MEMWARZZ_SUPABASE.URL":                   "https://project.supabase.co",
		"MEMWARZZ_SUPABASE.ANON_KEY":              "anon",
		"MEMWARZZ_SUPABASE.SERVICE_KEY":           "service",
		"MEMWARZZ_INTEGRATION.RESEND_API_KEY":     "re_test",
		"MEMWARZZ_INTEGRATION.PINATA_JWT":         "pinata",
		"MEMWARZZ_AUTH.PROVIDER":                  "supabase",
		"MEMWARZZ_OBSERVABILITY.LOGGING.LEVEL":    "debug",
		"MEMWARZZ_OBSERVABILITY.LOGGING.FORMAT":   "console",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	t.Setenv("MEMWARZZ_OBSERVABILITY.HEALTH_CHECKS.TIMEOUT", "2s")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://memwarzz.app"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, AuthProviderSupabase, cfg.Auth.Provider)
	assert.Equal(t, "memes", cfg.Supabase.StorageBucket)
	assert.Equal(t, DefaultPinataUploadURL, cfg.Integration.PinataUploadURL)

	require.NotNil(t, cfg.App)
	assert.Equal(t, 10, cfg.App.FeedPageSize)
	assert.Equal(t, 500, cfg.App.CommentMaxLength)
	assert.Equal(t, "@every 1m", cfg.App.BattleSettleSpec)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "memwarzz", cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.Equal(t, 2*time.Second, cfg.Observability.HealthChecks.Timeout)
	assert.True(t, cfg.Observability.HealthCheckEnabled("redis"))
}

func TestLoad_OverridesAppBlock(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MEMWARZZ_APP.FEED_PAGE_SIZE", "20")
	t.Setenv("MEMWARZZ_APP.FEED_CACHE_TTL", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.App.FeedPageSize)
	assert.Equal(t, time.Minute, cfg.App.FeedCacheTTL)
	// untouched fields still get defaults
	assert.Equal(t, 50, cfg.App.FeedMaxPageSize)
}

func TestLoad_ClerkRequiresSecretKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MEMWARZZ_AUTH.PROVIDER", "clerk")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SecretKey")
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MEMWARZZ_SUPABASE.URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestAppConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr bool
	}{
		{"defaults", func(c *AppConfig) {}, false},
		{"page size above max", func(c *AppConfig) { c.FeedPageSize = 100 }, true},
		{"negative increment", func(c *AppConfig) { c.SponsorMinBidIncrement = -1 }, true},
		{"min above max duration", func(c *AppConfig) { c.BattleMinDuration = 10 * 24 * time.Hour }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultAppConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestObservabilityConfig(t *testing.T) {
	c := DefaultObservabilityConfig()
	assert.NoError(t, c.Validate())
	assert.True(t, c.HealthCheckEnabled("redis"))
	assert.False(t, c.HealthCheckEnabled("kafka"))

	c.Logging.Level = "verbose"
	assert.Error(t, c.Validate())

	c.Logging.Level = ""
	c.Environment = "production"
	assert.Equal(t, "info", c.GetLogLevel())
	assert.True(t, c.IsProduction())
}
