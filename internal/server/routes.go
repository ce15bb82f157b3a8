package server

import (
	"github.com/go-chi/chi/v5"

	"github.com/redraft/redraft/internal/server/handlers"
	servermw "github.com/redraft/redraft/internal/server/middleware"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	// Standard health endpoints
	s.router.Get("/health", handlers.HealthHandler)
	s.router.Get("/health/live", handlers.LivenessHandler)
	s.router.Get("/health/ready", handlers.ReadinessHandler)
	s.router.Get("/health/startup", handlers.StartupHandler)

	// Version endpoint
	s.router.Get("/version", handlers.VersionHandler)

	// Metrics endpoint (in server package to access HandleError)
	s.router.Get("/metrics", MetricsHandler)

	// API endpoints sit behind the admission limiter; health, version, and
	// metrics stay outside it so probes never get throttled.
	s.router.Route("/api", func(api chi.Router) {
		if s.opts.Limiter != nil {
			api.Use(servermw.RateLimit(s.opts.Limiter, s.opts.StatsRecorder))
		}

		if s.opts.Rewriter != nil {
			api.Post("/rewrite", handlers.NewRewriteHandler(s.opts.Rewriter).Handle)
		}
		if s.opts.Verifier != nil {
			api.Post("/verify-key", handlers.NewVerifyHandler(s.opts.Verifier).Handle)
		}
	})
}
