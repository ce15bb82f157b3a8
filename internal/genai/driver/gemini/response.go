package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redraft/redraft/internal/genai/driver"
)

type generateContentResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type errorResponse struct {
	Error *errorDetail `json:"error,omitempty"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func toDriverResponse(resp *generateContentResponse) (*driver.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response candidates")
	}

	candidate := resp.Candidates[0]
	var text strings.Builder
	for _, p := range candidate.Content.Parts {
		text.WriteString(p.Text)
	}

	response := &driver.Response{
		Text:         text.String(),
		FinishReason: candidate.FinishReason,
	}

	if resp.UsageMetadata != nil {
		response.Usage = &driver.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	return response, nil
}

// toProviderError extracts the structured error detail when the body carries
// one, falling back to the raw body text.
func toProviderError(statusCode int, body []byte) *driver.ProviderError {
	perr := &driver.ProviderError{
		Provider:    "gemini",
		StatusCode:  statusCode,
		Message:     strings.TrimSpace(string(body)),
		RawResponse: body,
	}

	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		if parsed.Error.Code > 0 {
			perr.StatusCode = parsed.Error.Code
		}
		perr.Status = parsed.Error.Status
		if strings.TrimSpace(parsed.Error.Message) != "" {
			perr.Message = strings.TrimSpace(parsed.Error.Message)
		}
	}

	return perr
}
