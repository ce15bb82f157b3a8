package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/redraft/redraft/internal/genai"
)

type stubRewriter struct {
	text   string
	err    error
	gotCtx bool

	lastText string
	lastKey  string
}

func (s *stubRewriter) Rewrite(ctx context.Context, text, apiKey string) (string, error) {
	s.gotCtx = ctx != nil
	s.lastText = text
	s.lastKey = apiKey
	return s.text, s.err
}

func postRewrite(t *testing.T, rewriter TextRewriter, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewRewriteHandler(rewriter)
	req := httptest.NewRequest(http.MethodPost, "/api/rewrite", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestRewriteHandlerReturnsRewrittenText(t *testing.T) {
	rw := &stubRewriter{text: "It's a decent day, I guess."}

	rec := postRewrite(t, rw, `{"text":"The weather is nice today.","apiKey":"user-key"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["text"] != "It's a decent day, I guess." {
		t.Fatalf("unexpected body: %v", body)
	}
	if rw.lastText != "The weather is nice today." {
		t.Fatalf("expected text forwarded verbatim, got %q", rw.lastText)
	}
	if rw.lastKey != "user-key" {
		t.Fatalf("expected apiKey forwarded, got %q", rw.lastKey)
	}
	if !rw.gotCtx {
		t.Fatal("expected request context to be forwarded")
	}
}

func TestRewriteHandlerRejectsInvalidJSON(t *testing.T) {
	rec := postRewrite(t, &stubRewriter{}, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] == "" {
		t.Fatalf("expected error message, got %v", body)
	}
}

func TestRewriteHandlerRejectsEmptyText(t *testing.T) {
	for _, payload := range []string{`{}`, `{"text":""}`, `{"text":"   "}`} {
		rec := postRewrite(t, &stubRewriter{}, payload)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected status 400, got %d", payload, rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error"] != "Text is required." {
			t.Fatalf("payload %s: unexpected error %q", payload, body["error"])
		}
	}
}

func TestRewriteHandlerMissingCredentialIs401(t *testing.T) {
	rw := &stubRewriter{err: genai.ErrMissingCredential}

	rec := postRewrite(t, rw, `{"text":"hello"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != missingKeyMessage {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestRewriteHandlerPropagatesClassifiedStatus(t *testing.T) {
	cases := []struct {
		name    string
		failure *genai.Failure
		status  int
	}{
		{
			name:    "quota exhausted",
			failure: &genai.Failure{Class: genai.ClassQuotaExhausted, StatusCode: http.StatusTooManyRequests, Message: "quota exceeded"},
			status:  http.StatusTooManyRequests,
		},
		{
			name:    "auth invalid",
			failure: &genai.Failure{Class: genai.ClassAuthInvalid, StatusCode: http.StatusForbidden, Message: "API key not valid"},
			status:  http.StatusForbidden,
		},
		{
			name:    "unknown",
			failure: &genai.Failure{Class: genai.ClassUnknown, StatusCode: http.StatusInternalServerError, Message: "upstream exploded"},
			status:  http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postRewrite(t, &stubRewriter{err: tc.failure}, `{"text":"hello"}`)

			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			body := decodeBody(t, rec)
			if body["error"] != tc.failure.Message {
				t.Fatalf("expected message %q, got %q", tc.failure.Message, body["error"])
			}
		})
	}
}

func TestRewriteHandlerUnclassifiedErrorIs500(t *testing.T) {
	rec := postRewrite(t, &stubRewriter{err: context.Canceled}, `{"text":"hello"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Rewrite failed." {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}
