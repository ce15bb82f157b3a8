package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "https://generativelanguage.googleapis.com", cfg.Upstream.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 8*time.Second, cfg.Upstream.VerifyTimeout)

	assert.Equal(t, "gemini-2.5-pro", cfg.Upstream.Primary.Name)
	assert.InDelta(t, 1.1, cfg.Upstream.Primary.Temperature, 1e-9)
	assert.InDelta(t, 0.98, cfg.Upstream.Primary.TopP, 1e-9)
	assert.Equal(t, 100, cfg.Upstream.Primary.TopK)

	assert.Equal(t, "gemini-2.5-flash", cfg.Upstream.Secondary.Name)
	assert.InDelta(t, 1.0, cfg.Upstream.Secondary.Temperature, 1e-9)
	assert.InDelta(t, 0.95, cfg.Upstream.Secondary.TopP, 1e-9)
	assert.Equal(t, 64, cfg.Upstream.Secondary.TopK)

	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 20, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 10000, cfg.RateLimit.MaxClients)

	assert.Equal(t, "memory", cfg.Stats.Backend)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestLoadOverrides(t *testing.T) {
	v := newTestViper()
	v.Set("server.port", 9999)
	v.Set("upstream.primary.name", "gemini-2.0-flash")
	v.Set("rate_limit.max_requests", 5)
	v.Set("rate_limit.window", "30s")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.Upstream.Primary.Name)
	assert.Equal(t, 5, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	v := newTestViper()
	v.Set("server.port", 0)

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server port")
}

func TestLoadRejectsMissingModelNames(t *testing.T) {
	v := newTestViper()
	v.Set("upstream.secondary.name", "  ")

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secondary model")
}

func TestLoadRejectsUnknownStatsBackend(t *testing.T) {
	v := newTestViper()
	v.Set("stats.backend", "cassandra")

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stats backend")
}

func TestLoadRejectsRedisBackendWithoutAddr(t *testing.T) {
	v := newTestViper()
	v.Set("stats.backend", "redis")
	v.Set("stats.redis.addr", "")

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestGetConfigReturnsLastLoaded(t *testing.T) {
	v := newTestViper()
	v.Set("server.port", 7070)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Same(t, cfg, GetConfig())
}
