package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/fulmenhq/gofulmen/errors"
	"go.uber.org/zap"

	"github.com/redraft/redraft/internal/metrics"
	"github.com/redraft/redraft/internal/observability"
)

// Recovery middleware recovers from panics and logs them. The response body
// is written directly here (not via the errors package) to avoid a circular
// import; callers still get the flat contract shape.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				panicErr := errors.NewErrorEnvelope("INTERNAL_ERROR", fmt.Sprintf("panic: %v", err)).
					WithCorrelationID(GetRequestID(r.Context()))
				panicErr, _ = panicErr.WithContext(map[string]interface{}{
					"stack_trace": string(debug.Stack()),
				})
				panicErr, _ = panicErr.WithSeverity(errors.SeverityCritical)

				if observability.ServerLogger != nil {
					observability.ServerLogger.Error("panic recovered",
						zap.String("request_id", panicErr.CorrelationID),
						zap.String("path", r.URL.Path),
						zap.Any("panic", err))
				}

				metrics.RecordPanic()

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error."})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
