package adk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// DefaultOllamaModel is used when no model is configured
const DefaultOllamaModel = "llama3.2"

// OllamaProvider talks to a local Ollama server through /api/generate
type OllamaProvider struct {
	client *api.Client
	model  string
}

// NewOllamaProvider creates a provider for the server at endpoint.
// An empty endpoint falls back to OLLAMA_HOST, then to localhost:11434.
func NewOllamaProvider(endpoint, model string, timeout time.Duration) (*OllamaProvider, error) {
	if model == "" {
		model = DefaultOllamaModel
	}

	if endpoint == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
		return &OllamaProvider{client: client, model: model}, nil
	}

	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama endpoint %q: %w", endpoint, err)
	}

	httpClient := &http.Client{Timeout: timeout}
	return &OllamaProvider{client: api.NewClient(base, httpClient), model: model}, nil
}

func (p *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	resp, err := p.client.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Generate sends a non-streaming generate request and returns the full response text
func (p *OllamaProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	stream := false
	var sb strings.Builder
	err := p.client.Generate(ctx, &api.GenerateRequest{
		Model:  model,
		Prompt: req.Prompt,
		Stream: &stream,
	}, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", err
	}

	Debugf("ollama %s returned %d bytes", model, sb.Len())
	return sb.String(), nil
}
