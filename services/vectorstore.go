package services

import (
	"context"

	"ragagent/models"
)

// VectorStore is the storage capability the orchestrator is parameterized
// over. One implementation talks to a ChromaDB server, the other keeps
// everything in process memory; the orchestrator cannot tell them apart.
type VectorStore interface {
	// Add inserts chunks with their embeddings.
	Add(ctx context.Context, chunks []models.Chunk) error

	// Query returns up to topK chunks most similar to the embedding.
	Query(ctx context.Context, embedding []float32, topK int) ([]models.Retrieved, error)

	// Count reports the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// DeleteBySource removes every chunk ingested from the named source file.
	DeleteBySource(ctx context.Context, source string) error

	// Reset drops all stored chunks and leaves the store ready for new adds.
	Reset(ctx context.Context) error
}
