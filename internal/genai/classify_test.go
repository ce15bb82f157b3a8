package genai

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/redraft/redraft/internal/genai/driver"
)

func TestClassifyStatusCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        *driver.ProviderError
		wantClass  ErrorClass
		wantStatus int
	}{
		{"quota by status code", &driver.ProviderError{StatusCode: 429, Message: "slow down"}, ClassQuotaExhausted, 429},
		{"quota by marker", &driver.ProviderError{StatusCode: 400, Status: "RESOURCE_EXHAUSTED", Message: "limit"}, ClassQuotaExhausted, 429},
		{"auth by 403", &driver.ProviderError{StatusCode: 403, Message: "denied"}, ClassAuthInvalid, 403},
		{"auth by 401", &driver.ProviderError{StatusCode: 401, Message: "denied"}, ClassAuthInvalid, 401},
		{"auth by message", &driver.ProviderError{StatusCode: 400, Message: "API key not valid. Please pass a valid API key."}, ClassAuthInvalid, 400},
		{"malformed 4xx", &driver.ProviderError{StatusCode: 400, Message: "bad field"}, ClassMalformed, 400},
		{"unknown 5xx", &driver.ProviderError{StatusCode: 503, Message: "unavailable"}, ClassUnknown, 503},
		{"unknown without status", &driver.ProviderError{Message: "weird"}, ClassUnknown, 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			failure := Classify(tc.err)
			require.NotNil(t, failure)
			require.Equal(t, tc.wantClass, failure.Class)
			require.Equal(t, tc.wantStatus, failure.StatusCode)
		})
	}
}

func TestClassifyQuotaWinsOverUnrelatedMessage(t *testing.T) {
	// A 429 with an unrelated message substring must still classify as
	// quota exhaustion: the checks are ordered, first match wins.
	err := &driver.ProviderError{StatusCode: 429, Message: "API key not valid"}
	failure := Classify(err)
	require.Equal(t, ClassQuotaExhausted, failure.Class)
}

func TestClassifyScansRawPayloadAsLastResort(t *testing.T) {
	err := &driver.ProviderError{
		StatusCode:  400,
		Message:     "request rejected",
		RawResponse: []byte(`{"error":{"details":[{"reason":"RESOURCE_EXHAUSTED"}]}}`),
	}
	failure := Classify(err)
	require.Equal(t, ClassQuotaExhausted, failure.Class)
	require.Equal(t, http.StatusTooManyRequests, failure.StatusCode)
}

func TestClassifyTimeoutIsUnknown(t *testing.T) {
	failure := Classify(context.DeadlineExceeded)
	require.Equal(t, ClassUnknown, failure.Class)
	require.Equal(t, http.StatusInternalServerError, failure.StatusCode)
}

func TestClassifyPlainErrorIsUnknown(t *testing.T) {
	failure := Classify(errors.New("connection refused"))
	require.Equal(t, ClassUnknown, failure.Class)
	require.Equal(t, http.StatusInternalServerError, failure.StatusCode)
	require.Contains(t, failure.Message, "connection refused")
}

func TestClassifyNil(t *testing.T) {
	require.Nil(t, Classify(nil))
}
