package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiGenerator implements Generator against the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator for the named Gemini model.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate produces a completion for the prompt.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var responseText strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			responseText.WriteString(p.Text)
		}
	}
	return responseText.String(), nil
}

// Probe issues a minimal completion to verify the backend is reachable.
func (g *GeminiGenerator) Probe(ctx context.Context) error {
	if _, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text("test"), nil); err != nil {
		return fmt.Errorf("gemini probe failed: %w", err)
	}
	return nil
}

// Model returns the active model name.
func (g *GeminiGenerator) Model() string {
	return g.model
}
