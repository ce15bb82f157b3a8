package metrics

import "github.com/redraft/redraft/internal/observability"

// Application-level metric names following Prometheus conventions
var (
	RewritesTotal      = "app_rewrites_total"
	FallbacksTotal     = "app_fallbacks_total"
	VerificationsTotal = "app_verifications_total"
	RateLimitedTotal   = "app_rate_limited_total"
)

// RecordRewrite records a rewrite attempt against a model with its outcome.
func RecordRewrite(model string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			RewritesTotal,
			1,
			map[string]string{
				"model":  model,
				"status": status,
			},
		)
	}
}

// RecordFallback records a primary→secondary fallback.
func RecordFallback(secondaryModel string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			FallbacksTotal,
			1,
			map[string]string{"model": secondaryModel},
		)
	}
}

// RecordVerification records a credential verification with its outcome.
func RecordVerification(valid bool) {
	status := "valid"
	if !valid {
		status = "invalid"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			VerificationsTotal,
			1,
			map[string]string{"status": status},
		)
	}
}

// RecordRateLimited records a rejected request.
func RecordRateLimited(endpoint string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			RateLimitedTotal,
			1,
			map[string]string{"endpoint": endpoint},
		)
	}
}
