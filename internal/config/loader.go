package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// SetDefaults installs the built-in configuration layer on the supplied
// viper instance. Every key the service reads has a default here so a
// bare process comes up working.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")

	// Upstream provider defaults
	v.SetDefault("upstream.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("upstream.api_key", "")
	v.SetDefault("upstream.timeout", "60s")
	v.SetDefault("upstream.verify_timeout", "8s")
	v.SetDefault("upstream.max_rps", 0)

	v.SetDefault("upstream.primary.name", "gemini-2.5-pro")
	v.SetDefault("upstream.primary.temperature", 1.1)
	v.SetDefault("upstream.primary.top_p", 0.98)
	v.SetDefault("upstream.primary.top_k", 100)

	v.SetDefault("upstream.secondary.name", "gemini-2.5-flash")
	v.SetDefault("upstream.secondary.temperature", 1.0)
	v.SetDefault("upstream.secondary.top_p", 0.95)
	v.SetDefault("upstream.secondary.top_k", 64)

	// Admission limiter defaults
	v.SetDefault("rate_limit.window", "60s")
	v.SetDefault("rate_limit.max_requests", 20)
	v.SetDefault("rate_limit.max_clients", 10000)
	v.SetDefault("rate_limit.sweep_every", "5m")

	// Stats recorder defaults
	v.SetDefault("stats.backend", "memory")
	v.SetDefault("stats.redis.addr", "localhost:6379")
	v.SetDefault("stats.redis.password", "")
	v.SetDefault("stats.redis.db", 0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "structured")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	// Health check defaults
	v.SetDefault("health.enabled", true)
}

// Load unmarshals the merged viper state into a typed Config and
// validates it. Safe to call again on config reload.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setConfig(cfg)
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Upstream.Primary.Name) == "" {
		return fmt.Errorf("upstream primary model name is required")
	}
	if strings.TrimSpace(c.Upstream.Secondary.Name) == "" {
		return fmt.Errorf("upstream secondary model name is required")
	}
	if c.RateLimit.Window < 0 {
		return fmt.Errorf("rate limit window must not be negative")
	}
	if c.RateLimit.MaxRequests < 0 {
		return fmt.Errorf("rate limit max requests must not be negative")
	}

	switch c.Stats.Backend {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("unknown stats backend: %q", c.Stats.Backend)
	}
	if c.Stats.Backend == "redis" && strings.TrimSpace(c.Stats.Redis.Addr) == "" {
		return fmt.Errorf("stats backend redis requires an address")
	}

	return nil
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}
