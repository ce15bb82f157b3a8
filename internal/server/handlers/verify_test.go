package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/redraft/redraft/internal/genai"
)

type stubVerifier struct {
	err     error
	lastKey string
}

func (s *stubVerifier) Verify(ctx context.Context, apiKey string) error {
	s.lastKey = apiKey
	return s.err
}

func postVerify(t *testing.T, verifier CredentialVerifier, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewVerifyHandler(verifier)
	req := httptest.NewRequest(http.MethodPost, "/api/verify-key", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

func TestVerifyHandlerValidKey(t *testing.T) {
	v := &stubVerifier{}

	rec := postVerify(t, v, `{"apiKey":"good-key"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "valid" {
		t.Fatalf("unexpected body: %v", body)
	}
	if v.lastKey != "good-key" {
		t.Fatalf("expected trimmed key forwarded, got %q", v.lastKey)
	}
}

func TestVerifyHandlerInvalidKey(t *testing.T) {
	v := &stubVerifier{err: &genai.Failure{
		Class:      genai.ClassAuthInvalid,
		StatusCode: http.StatusForbidden,
		Message:    "API key not valid",
	}}

	rec := postVerify(t, v, `{"apiKey":"bad-key"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "invalid" {
		t.Fatalf("unexpected status %q", body["status"])
	}
	if body["error"] != "API key not valid" {
		t.Fatalf("unexpected error %q", body["error"])
	}
}

func TestVerifyHandlerQuotaStillInvalid(t *testing.T) {
	v := &stubVerifier{err: &genai.Failure{
		Class:      genai.ClassQuotaExhausted,
		StatusCode: http.StatusTooManyRequests,
		Message:    "quota exceeded",
	}}

	rec := postVerify(t, v, `{"apiKey":"throttled-key"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "invalid" {
		t.Fatalf("unexpected status %q", body["status"])
	}
}

func TestVerifyHandlerRequiresKey(t *testing.T) {
	for _, payload := range []string{`{}`, `{"apiKey":""}`, `{"apiKey":"  "}`} {
		rec := postVerify(t, &stubVerifier{}, payload)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected status 400, got %d", payload, rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error"] != "API Key is required" {
			t.Fatalf("payload %s: unexpected error %q", payload, body["error"])
		}
	}
}

func TestVerifyHandlerRejectsInvalidJSON(t *testing.T) {
	rec := postVerify(t, &stubVerifier{}, `{nope`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestVerifyHandlerTrimsKey(t *testing.T) {
	v := &stubVerifier{}

	rec := postVerify(t, v, `{"apiKey":"  spaced-key  "}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if v.lastKey != "spaced-key" {
		t.Fatalf("expected trimmed key, got %q", v.lastKey)
	}
}
