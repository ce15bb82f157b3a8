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

// missingKeyMessage tells the caller how to recover; the 401 status is what
// lets the client offer a key-entry affordance instead of a dead end.
const missingKeyMessage = "API Key is missing. Add your own key or configure one on the server."

// RewriteRequest is the rewrite operation input.
type RewriteRequest struct {
	Text   string `json:"text"`
	APIKey string `json:"apiKey,omitempty"`
}

// RewriteResponse carries the rewritten text.
type RewriteResponse struct {
	Text string `json:"text"`
}

// TextRewriter runs one rewrite cycle against the upstream models.
type TextRewriter interface {
	Rewrite(ctx context.Context, text, apiKey string) (string, error)
}

// RewriteHandler serves POST /api/rewrite.
type RewriteHandler struct {
	rewriter TextRewriter
}

// NewRewriteHandler returns the rewrite handler.
func NewRewriteHandler(rewriter TextRewriter) *RewriteHandler {
	return &RewriteHandler{rewriter: rewriter}
}

// Handle decodes the request, runs the rewrite cycle, and translates the
// outcome to the wire contract.
func (h *RewriteHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.RespondWithError(w, r, apperrors.NewInvalidInputError("Request body must be valid JSON."))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		apperrors.RespondWithError(w, r, apperrors.NewInvalidInputError("Text is required."))
		return
	}

	text, err := h.rewriter.Rewrite(r.Context(), req.Text, req.APIKey)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RewriteResponse{Text: text})
}

func (h *RewriteHandler) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, genai.ErrMissingCredential) {
		apperrors.RespondWithError(w, r, apperrors.NewMissingCredentialError(missingKeyMessage))
		return
	}

	var failure *genai.Failure
	if errors.As(err, &failure) {
		// Upstream failures surface with their own best-known status.
		apperrors.RespondWithStatus(w, r, failure.StatusCode, apperrors.NewUpstreamError(failure.Message))
		return
	}

	apperrors.RespondWithError(w, r, apperrors.NewInternalError("Rewrite failed."))
}
