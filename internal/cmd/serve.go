package cmd

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/redraft/redraft/internal/config"
	errwrap "github.com/redraft/redraft/internal/errors"
	"github.com/redraft/redraft/internal/genai"
	"github.com/redraft/redraft/internal/genai/driver/gemini"
	"github.com/redraft/redraft/internal/genai/prompt"
	"github.com/redraft/redraft/internal/observability"
	"github.com/redraft/redraft/internal/ratelimit"
	"github.com/redraft/redraft/internal/server"
	"github.com/redraft/redraft/internal/server/handlers"
)

var (
	serverPort int
	serverHost string
)

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// upstreamHealthChecker validates the upstream configuration is serviceable
type upstreamHealthChecker struct {
	cfg genai.Config
}

func (u upstreamHealthChecker) CheckHealth(ctx context.Context) error {
	switch {
	case strings.TrimSpace(u.cfg.BaseURL) == "":
		return errwrap.NewConfigInvalidError("upstream base URL not configured")
	case strings.TrimSpace(u.cfg.Primary.Name) == "":
		return errwrap.NewConfigInvalidError("upstream primary model not configured")
	case strings.TrimSpace(u.cfg.Secondary.Name) == "":
		return errwrap.NewConfigInvalidError("upstream secondary model not configured")
	}
	return nil
}

// limiterHealthChecker surfaces a runaway tracked-client map
type limiterHealthChecker struct {
	limiter *ratelimit.Limiter
}

func (l limiterHealthChecker) CheckHealth(ctx context.Context) error {
	if l.limiter == nil {
		return errwrap.NewInternalError("rate limiter not initialized")
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP rewrite proxy with graceful shutdown support.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (placeholder - restart recommended)

The server will cleanly shut down the HTTP server and flush logs on shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "configuration invalid")
		}

		observability.InitServerLogger(binaryName, cfg.Logging.Level)

		if cfg.Metrics.Enabled {
			if err := observability.InitMetrics(binaryName, cfg.Metrics.Port); err != nil {
				observability.ServerLogger.Error("Failed to initialize metrics",
					zap.Error(err))
				return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
			}
		}

		observability.ServerLogger.Info("Initializing server",
			zap.String("service", binaryName),
			zap.String("version", versionInfo.Version),
			zap.String("host", serverHost),
			zap.Int("port", serverPort),
			zap.String("primary_model", cfg.Upstream.Primary.Name),
			zap.String("secondary_model", cfg.Upstream.Secondary.Name))

		// Upstream client
		client := gemini.NewClient(cfg.Upstream.BaseURL)
		client.Timeout = cfg.Upstream.Timeout
		if cfg.Upstream.MaxRPS > 0 {
			burst := int(cfg.Upstream.MaxRPS)
			if burst < 1 {
				burst = 1
			}
			client.Pacer = rate.NewLimiter(rate.Limit(cfg.Upstream.MaxRPS), burst)
		}

		prompts, err := prompt.DefaultRegistry()
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "prompt registry initialization failed")
		}

		rewriter, err := genai.NewRewriter(client, cfg.Upstream, prompts, observability.ServerLogger)
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "rewriter initialization failed")
		}
		verifier := genai.NewVerifier(client, cfg.Upstream, observability.ServerLogger)

		// Admission limiter with background sweep
		limiter := ratelimit.New(cfg.RateLimit)
		janitorCtx, stopJanitor := context.WithCancel(context.Background())
		limiter.StartJanitor(janitorCtx)

		recorder, redisClient, err := buildStatsRecorder(cfg)
		if err != nil {
			stopJanitor()
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "stats recorder initialization failed")
		}

		// Health manager
		handlers.InitHealthManager(versionInfo.Version)
		hm := handlers.GetHealthManager()
		if cfg.Metrics.Enabled {
			hm.RegisterChecker("telemetry", telemetryHealthChecker{})
		}
		hm.RegisterChecker("upstream_config", upstreamHealthChecker{cfg: cfg.Upstream})
		hm.RegisterChecker("rate_limiter", limiterHealthChecker{limiter: limiter})

		// Create server
		srv := server.New(serverHost, serverPort, server.Options{
			Rewriter:      rewriter,
			Verifier:      verifier,
			Limiter:       limiter,
			StatsRecorder: recorder,
		})

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout == 0 {
			shutdownTimeout = 10 * time.Second
		}

		// Register graceful shutdown handlers (LIFO order - last registered, first executed)
		// Handler 1: Flush logger (executed last)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Flushing logger...")
			if err := observability.ServerLogger.Sync(); err != nil {
				// Sync errors are often benign (stdout/stderr already closed)
				observability.ServerLogger.Warn("Logger sync returned error (may be benign)",
					zap.Error(err))
			}
			return nil
		})

		// Handler 2: Stop background workers and close shared clients
		signals.OnShutdown(func(ctx context.Context) error {
			stopJanitor()
			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					observability.ServerLogger.Warn("Failed to close redis client",
						zap.Error(err))
				}
			}
			return nil
		})

		// Handler 3: Shutdown HTTP server (executed first)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errwrap.WrapInternal(ctx, err, "server shutdown failed")
			}

			observability.ServerLogger.Info("HTTP server stopped gracefully")
			return nil
		})

		// Register config reload handler (SIGHUP)
		signals.OnReload(func(ctx context.Context) error {
			observability.ServerLogger.Info("Received SIGHUP: attempting config reload")

			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); ok {
					observability.ServerLogger.Info("No config file found - using defaults and environment variables")
					return nil
				}
				observability.ServerLogger.Error("Failed to reload config file",
					zap.String("file", viper.ConfigFileUsed()),
					zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			observability.ServerLogger.Info("Configuration reloaded successfully",
				zap.String("file", viper.ConfigFileUsed()))

			return nil
		})

		// Enable double-tap force quit (Ctrl+C within 2 seconds)
		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			observability.ServerLogger.Warn("Failed to enable double-tap force quit",
				zap.Error(err))
		}

		// Start server in background goroutine
		errChan := make(chan error, 1)
		go func() {
			observability.ServerLogger.Info("Starting HTTP server...",
				zap.String("host", serverHost),
				zap.Int("port", serverPort))
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Start signal listener in background
		go func() {
			if err := signals.Listen(cmd.Context()); err != nil {
				observability.ServerLogger.Error("Signal handler error", zap.Error(err))
				errChan <- err
			}
		}()

		// Wait for error or shutdown completion
		if err := <-errChan; err != nil {
			return errwrap.WrapInternal(cmd.Context(), err, "server error")
		}

		return nil
	},
}

// buildStatsRecorder picks the admission-decision recorder backend. The
// redis client is returned so shutdown can close it.
func buildStatsRecorder(cfg *config.Config) (ratelimit.Recorder, *redis.Client, error) {
	switch cfg.Stats.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Stats.Redis.Addr,
			Password: cfg.Stats.Redis.Password,
			DB:       cfg.Stats.Redis.DB,
		})
		return ratelimit.NewRedisRecorder(rdb), rdb, nil
	case "", "memory":
		return ratelimit.NewMemoryRecorder(), nil, nil
	default:
		return nil, nil, errwrap.NewConfigInvalidError("unknown stats backend: " + cfg.Stats.Backend)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
