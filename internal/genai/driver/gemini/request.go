package gemini

import (
	"fmt"
	"strings"

	"github.com/redraft/redraft/internal/genai/driver"
)

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"topP,omitempty"`
	TopK        *int     `json:"topK,omitempty"`
}

func buildGenerateRequest(req *driver.Request) (*generateContentRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	payload := &generateContentRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
	}

	if strings.TrimSpace(req.SystemInstruction) != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: req.SystemInstruction}}}
	}

	if req.Sampling != nil {
		temperature := req.Sampling.Temperature
		topP := req.Sampling.TopP
		topK := req.Sampling.TopK
		payload.GenerationConfig = &generationConfig{
			Temperature: &temperature,
			TopP:        &topP,
			TopK:        &topK,
		}
	}

	return payload, nil
}
