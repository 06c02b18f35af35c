package adk

import (
	"context"
	"fmt"
	"time"
)

// ProviderOptions carries the settings a provider may need
type ProviderOptions struct {
	APIKey   string
	Model    string
	Endpoint string        // base URL, ollama only
	Timeout  time.Duration // per request, zero means none
}

func NewProvider(ctx context.Context, providerName string, opts ProviderOptions) (LLMProvider, error) {
	switch providerName {
	case "ollama", "":
		return NewOllamaProvider(opts.Endpoint, opts.Model, opts.Timeout)
	case "gemini":
		return NewGeminiProvider(ctx, opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
}
