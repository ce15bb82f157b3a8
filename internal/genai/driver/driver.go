package driver

import "context"

// Driver defines the interface for generation providers.
//
// A driver performs exactly one upstream call per Generate invocation.
// Retry and fallback policy live in the caller, never here.
type Driver interface {
	// Generate sends a generation request and returns the response.
	Generate(ctx context.Context, req *Request) (*Response, error)
	// Name returns the driver identifier (e.g. "gemini").
	Name() string
}

// SamplingConfig carries per-model sampling parameters.
type SamplingConfig struct {
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	TopP        float64 `json:"top_p" mapstructure:"top_p"`
	TopK        int     `json:"top_k" mapstructure:"top_k"`
}

// Usage contains token usage statistics.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Request is a provider-agnostic generation request. It is built fresh per
// call attempt and must not be mutated after construction.
type Request struct {
	Model             string
	Prompt            string
	SystemInstruction string
	Sampling          *SamplingConfig

	// APIKey is the credential for this single attempt. Credentials are
	// per-request here, not per-client: the same driver serves both
	// caller-supplied and server-default keys.
	APIKey string
}

// Response is a provider-agnostic generation response.
type Response struct {
	Text         string
	FinishReason string
	Usage        *Usage
}
