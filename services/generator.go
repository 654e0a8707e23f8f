package services

import "context"

// Generator is the text-generation capability the orchestrator is
// parameterized over. Probe is a minimal completion used by the health check.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Probe(ctx context.Context) error
	Model() string
}
