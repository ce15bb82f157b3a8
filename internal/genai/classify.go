package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/redraft/redraft/internal/genai/driver"
)

// ErrorClass partitions upstream failures for the fallback policy.
type ErrorClass string

const (
	ClassQuotaExhausted ErrorClass = "quota_exhausted"
	ClassAuthInvalid    ErrorClass = "auth_invalid"
	ClassMalformed      ErrorClass = "malformed"
	ClassUnknown        ErrorClass = "unknown"
)

// resourceExhaustedMarker is Gemini's symbolic status for quota exhaustion.
// The raw-payload scan below is a last resort for responses where the
// structured fields are absent; keep the fragile matching confined to
// classify so callers only ever see ErrorClass.
const resourceExhaustedMarker = "RESOURCE_EXHAUSTED"

// Failure is a classified upstream failure. StatusCode is the best-known
// HTTP status to surface to the caller.
type Failure struct {
	Class      ErrorClass
	StatusCode int
	Message    string
}

func (f *Failure) Error() string {
	if f == nil {
		return "generation failed"
	}
	return fmt.Sprintf("generation failed (%s): %s", f.Class, f.Message)
}

// Classify maps a driver error to a Failure. First match wins:
// quota exhaustion, then auth, then other 4xx, then unknown.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Class: ClassUnknown, StatusCode: http.StatusInternalServerError, Message: "upstream request timed out"}
	}

	var perr *driver.ProviderError
	if errors.As(err, &perr) && perr != nil {
		status := perr.StatusCode
		message := strings.TrimSpace(perr.Message)
		if message == "" {
			message = "upstream request failed"
		}

		switch {
		case isQuotaExhausted(perr):
			return &Failure{Class: ClassQuotaExhausted, StatusCode: http.StatusTooManyRequests, Message: message}
		case isAuthFailure(perr):
			if status < 400 || status > 499 {
				status = http.StatusForbidden
			}
			return &Failure{Class: ClassAuthInvalid, StatusCode: status, Message: message}
		case status >= 400 && status <= 499:
			return &Failure{Class: ClassMalformed, StatusCode: status, Message: message}
		default:
			if status <= 0 {
				status = http.StatusInternalServerError
			}
			return &Failure{Class: ClassUnknown, StatusCode: status, Message: message}
		}
	}

	return &Failure{Class: ClassUnknown, StatusCode: http.StatusInternalServerError, Message: err.Error()}
}

func isQuotaExhausted(perr *driver.ProviderError) bool {
	if perr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(perr.Status), resourceExhaustedMarker) {
		return true
	}
	// Last resort: scan the full payload for the marker.
	return strings.Contains(string(perr.RawResponse), resourceExhaustedMarker)
}

func isAuthFailure(perr *driver.ProviderError) bool {
	if perr.StatusCode == http.StatusForbidden || perr.StatusCode == http.StatusUnauthorized {
		return true
	}
	switch strings.ToUpper(strings.TrimSpace(perr.Status)) {
	case "PERMISSION_DENIED", "UNAUTHENTICATED":
		return true
	}
	return strings.Contains(strings.ToLower(perr.Message), "api key not valid")
}
