package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/redraft/redraft/internal/errors"
	"github.com/redraft/redraft/internal/genai"
)

// VerifyRequest is the verify operation input. The key is required: verify
// exists specifically to test a caller's own key and never falls back to
// the server default.
type VerifyRequest struct {
	APIKey string `json:"apiKey"`
}

// VerifyResponse reports credential usability as a boolean signal.
type VerifyResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// CredentialVerifier probes the upstream with a credential.
type CredentialVerifier interface {
	Verify(ctx context.Context, apiKey string) error
}

// VerifyHandler serves POST /api/verify-key.
type VerifyHandler struct {
	verifier CredentialVerifier
}

// NewVerifyHandler returns the verify handler.
func NewVerifyHandler(verifier CredentialVerifier) *VerifyHandler {
	return &VerifyHandler{verifier: verifier}
}

// Handle decodes the request and reports whether the key is usable. Every
// failure class collapses to "invalid" here; the classified detail is
// logged by the verifier.
func (h *VerifyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.RespondWithError(w, r, apperrors.NewInvalidInputError("Request body must be valid JSON."))
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		apperrors.RespondWithError(w, r, apperrors.NewInvalidInputError("API Key is required"))
		return
	}

	if err := h.verifier.Verify(r.Context(), strings.TrimSpace(req.APIKey)); err != nil {
		detail := "verification failed"
		var failure *genai.Failure
		if errors.As(err, &failure) {
			detail = failure.Message
		}
		writeJSON(w, http.StatusBadRequest, VerifyResponse{Status: "invalid", Error: detail})
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponse{Status: "valid"})
}
