// Package config provides centralized configuration management for the
// rewrite service. Values come from three layers: built-in defaults,
// an optional YAML config file, and REDRAFT_-prefixed environment
// variables, with later layers winning.
package config

import (
	"time"

	"github.com/redraft/redraft/internal/genai"
	"github.com/redraft/redraft/internal/ratelimit"
)

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Upstream  genai.Config     `mapstructure:"upstream"`
	RateLimit ratelimit.Config `mapstructure:"rate_limit"`
	Stats     StatsConfig      `mapstructure:"stats"`
	Logging   LoggingConfig    `mapstructure:"logging"`
	Metrics   MetricsConfig    `mapstructure:"metrics"`
	Health    HealthConfig     `mapstructure:"health"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StatsConfig selects the rate-limit decision recorder backend. The
// memory backend keeps counters in-process; the redis backend shares
// them across instances.
type StatsConfig struct {
	Backend string      `mapstructure:"backend"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains connection settings for the redis stats backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains metrics exporter configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
