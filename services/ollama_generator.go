package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaGenerator implements Generator against a local Ollama server.
type OllamaGenerator struct {
	llm   *ollama.LLM
	model string
}

// NewOllamaGenerator creates a generator bound to one Ollama model. The
// supplied client carries the request timeout for generation calls.
func NewOllamaGenerator(client *http.Client, baseURL, model string) (*OllamaGenerator, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(model),
		ollama.WithHTTPClient(client),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama llm client: %w", err)
	}
	return &OllamaGenerator{llm: llm, model: model}, nil
}

// Generate produces a completion for the prompt.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	answer, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(0.7),
	)
	if err != nil {
		return "", fmt.Errorf("ollama generation failed: %w", err)
	}
	return answer, nil
}

// Probe issues a minimal completion to verify the backend is reachable.
func (g *OllamaGenerator) Probe(ctx context.Context) error {
	_, err := llms.GenerateFromSinglePrompt(ctx, g.llm, "test",
		llms.WithMaxTokens(1),
	)
	if err != nil {
		return fmt.Errorf("ollama probe failed: %w", err)
	}
	return nil
}

// Model returns the active model name.
func (g *OllamaGenerator) Model() string {
	return g.model
}
