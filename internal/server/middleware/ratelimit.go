package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/redraft/redraft/internal/metrics"
	"github.com/redraft/redraft/internal/observability"
	"github.com/redraft/redraft/internal/ratelimit"
)

// rateLimitedMessage is part of the public contract.
const rateLimitedMessage = "Too many requests. Please try again later."

// RateLimit gates every request through the admission limiter before any
// other processing. Decisions are optionally recorded for observability;
// the response body is written directly here to avoid a circular import
// with the errors package.
func RateLimit(limiter *ratelimit.Limiter, recorder ratelimit.Recorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ratelimit.ClientKey(r)
			allowed := limiter.Allow(key)

			if recorder != nil {
				_ = recorder.Record(r.Context(), ratelimit.Event{
					Key:     key,
					Allowed: allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}

			if !allowed {
				if observability.ServerLogger != nil {
					observability.ServerLogger.Warn("request rate limited",
						zap.String("client", key),
						zap.String("path", r.URL.Path),
						zap.String("request_id", GetRequestID(r.Context())))
				}
				metrics.RecordRateLimited(r.URL.Path)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": rateLimitedMessage})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
