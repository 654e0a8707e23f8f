package services

import (
	"context"
	"math"
	"sort"
	"sync"

	"ragagent/models"

	"github.com/google/uuid"
)

// MemoryStore implements VectorStore in process memory with brute-force
// cosine similarity. It backs deployments without a ChromaDB server; contents
// do not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]models.Chunk
}

// NewMemoryStore creates an empty in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chunks: make(map[string]models.Chunk),
	}
}

// Add inserts the chunks, assigning IDs where missing.
func (s *MemoryStore) Add(ctx context.Context, chunks []models.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		if chunk.ID == "" {
			chunk.ID = uuid.New().String()
		}
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

// Query ranks every stored chunk by cosine similarity and returns the top K.
func (s *MemoryStore) Query(ctx context.Context, embedding []float32, topK int) ([]models.Retrieved, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		chunk models.Chunk
		score float32
	}
	results := make([]scored, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		results = append(results, scored{chunk: chunk, score: cosineSimilarity(embedding, chunk.Embedding)})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if topK < len(results) {
		results = results[:topK]
	}

	retrieved := make([]models.Retrieved, 0, len(results))
	for _, r := range results {
		retrieved = append(retrieved, models.Retrieved{
			Text:   r.chunk.Text,
			Source: r.chunk.Source,
		})
	}
	return retrieved, nil
}

// Count reports the number of stored chunks.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// DeleteBySource removes every chunk that came from the named source file.
func (s *MemoryStore) DeleteBySource(ctx context.Context, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, chunk := range s.chunks {
		if chunk.Source == source {
			delete(s.chunks, id)
		}
	}
	return nil
}

// Reset drops all stored chunks.
func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = make(map[string]models.Chunk)
	return nil
}

// cosineSimilarity returns a value in [-1, 1]; mismatched or zero vectors
// score 0.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
