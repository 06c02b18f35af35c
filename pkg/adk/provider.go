package adk

import (
	"context"
)

// GenerateRequest is a single prompt sent to a model
type GenerateRequest struct {
	Model  string // empty selects the provider default
	Prompt string
}

// LLMProvider defines the interface for different AI models
type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}
