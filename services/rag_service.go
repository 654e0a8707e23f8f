package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"ragagent/models"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

// RAGService is the retrieval orchestrator: ingest, query, clear and
// inspection over one configurable vector store and one configurable
// generation backend.
type RAGService interface {
	Ingest(ctx context.Context, paths []string) (*models.IngestResult, error)
	Query(ctx context.Context, query string, topK int, history []models.ChatMessage) *models.QueryResponse
	RemoveDocument(ctx context.Context, filename string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (*models.StatsResponse, error)
	Health(ctx context.Context) *HealthStatus
	IndexReady() bool
}

// HealthStatus reports each backend probe separately so callers can tell
// which dependency is down instead of inferring it from message text.
type HealthStatus struct {
	LLMConnected   bool
	StoreConnected bool
	IndexReady     bool
	LLMError       string
	StoreError     string
}

// ragServiceImpl holds the dependencies it needs to do its job.
type ragServiceImpl struct {
	store     VectorStore
	embedder  Embedder
	generator Generator

	chunkSize      int
	chunkOverlap   int
	embeddingModel string

	// mu serializes the index-presence state transitions (ingest, clear,
	// per-document delete, startup resume). The invariant it protects:
	// indexReady is true iff the store holds at least one chunk.
	mu         sync.Mutex
	indexReady bool
}

// NewRAGService wires the orchestrator and resumes a previously built index
// if the store already holds chunks.
func NewRAGService(ctx context.Context, store VectorStore, embedder Embedder, generator Generator, chunkSize, chunkOverlap int, embeddingModel string) RAGService {
	r := &ragServiceImpl{
		store:          store,
		embedder:       embedder,
		generator:      generator,
		chunkSize:      chunkSize,
		chunkOverlap:   chunkOverlap,
		embeddingModel: embeddingModel,
	}

	count, err := store.Count(ctx)
	switch {
	case err != nil:
		log.Printf("SERVICE WARN: Could not check for an existing index: %v", err)
	case count > 0:
		log.Printf("SERVICE: Found %d existing chunks, resuming index", count)
		r.indexReady = true
	}
	return r
}

// IndexReady reports whether at least one chunk has been ingested.
func (r *ragServiceImpl) IndexReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indexReady
}

// Ingest loads each file, splits it into overlapping chunks, embeds every
// chunk and adds them to the store. Zero resulting chunks is a failure that
// leaves the index state untouched.
func (r *ragServiceImpl) Ingest(ctx context.Context, paths []string) (*models.IngestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Printf("SERVICE: Ingesting %d document(s)...", len(paths))

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(r.chunkSize),
		textsplitter.WithChunkOverlap(r.chunkOverlap),
	)

	var chunks []models.Chunk
	numDocuments := 0
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			log.Printf("SERVICE WARN: Skipping missing file %s", path)
			continue
		}
		text, err := ExtractTextFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not extract text from %s: %w", filepath.Base(path), err)
		}
		pieces, err := splitter.SplitText(text)
		if err != nil {
			return nil, fmt.Errorf("could not split %s: %w", filepath.Base(path), err)
		}
		source := filepath.Base(path)
		for i, piece := range pieces {
			chunks = append(chunks, models.Chunk{
				ID:     fmt.Sprintf("%s-chunk%d", uuid.New().String(), i),
				Text:   piece,
				Source: source,
				Index:  i,
			})
		}
		numDocuments++
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("no valid documents found")
	}

	for i := range chunks {
		embedding, err := r.embedder.Embed(ctx, chunks[i].Text)
		if err != nil {
			return nil, fmt.Errorf("could not embed chunk %d of %s: %w", chunks[i].Index, chunks[i].Source, err)
		}
		chunks[i].Embedding = embedding
	}

	if err := r.store.Add(ctx, chunks); err != nil {
		return nil, fmt.Errorf("could not store chunks: %w", err)
	}
	r.indexReady = true

	log.Printf("SERVICE: Ingested %d document(s) into %d chunks", numDocuments, len(chunks))
	return &models.IngestResult{
		NumDocuments: numDocuments,
		NumChunks:    len(chunks),
	}, nil
}

// Query runs retrieval-augmented generation. Failures on this path are
// converted into an answer carrying the error, never a raised fault.
func (r *ragServiceImpl) Query(ctx context.Context, query string, topK int, history []models.ChatMessage) *models.QueryResponse {
	r.mu.Lock()
	ready := r.indexReady
	r.mu.Unlock()

	if !ready {
		return &models.QueryResponse{
			Answer:   "No documents have been uploaded yet. Please upload documents first.",
			Sources:  []string{},
			Metadata: map[string]any{"error": "No index available"},
		}
	}

	log.Printf("SERVICE: Querying with: '%s' (top_k=%d, history=%d turns)", query, topK, len(history))

	queryText := buildQueryText(query, history)

	embedding, err := r.embedder.Embed(ctx, queryText)
	if err != nil {
		return queryFailure(fmt.Errorf("failed to embed query text: %w", err))
	}

	retrieved, err := r.store.Query(ctx, embedding, topK)
	if err != nil {
		return queryFailure(fmt.Errorf("failed to search vector store: %w", err))
	}

	answer, err := r.generator.Generate(ctx, buildGenerationPrompt(queryText, retrieved))
	if err != nil {
		return queryFailure(fmt.Errorf("failed to generate answer: %w", err))
	}

	sources := make([]string, 0, len(retrieved))
	for _, doc := range retrieved {
		sources = append(sources, truncateSource(doc.Text))
	}

	return &models.QueryResponse{
		Answer:  answer,
		Sources: sources,
		Metadata: map[string]any{
			"model":       r.generator.Model(),
			"num_sources": len(sources),
			"top_k":       topK,
		},
	}
}

func queryFailure(err error) *models.QueryResponse {
	log.Printf("SERVICE ERROR: %v", err)
	return &models.QueryResponse{
		Answer:   fmt.Sprintf("Error processing query: %v", err),
		Sources:  []string{},
		Metadata: map[string]any{"error": err.Error()},
	}
}

// RemoveDocument drops every chunk ingested from one file. When the store
// drains to zero the index reverts to the empty state.
func (r *ragServiceImpl) RemoveDocument(ctx context.Context, filename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.DeleteBySource(ctx, filepath.Base(filename)); err != nil {
		return err
	}
	count, err := r.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("could not recount chunks after delete: %w", err)
	}
	r.indexReady = count > 0
	log.Printf("SERVICE: Removed chunks for %s (%d remaining)", filepath.Base(filename), count)
	return nil
}

// Clear resets the store and discards the index reference.
func (r *ragServiceImpl) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to clear vector store: %w", err)
	}
	r.indexReady = false
	log.Printf("SERVICE: Index cleared")
	return nil
}

// Stats reports the chunk count, index state and active models.
func (r *ragServiceImpl) Stats(ctx context.Context) (*models.StatsResponse, error) {
	count, err := r.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count chunks: %w", err)
	}
	return &models.StatsResponse{
		NumChunks:      count,
		IndexReady:     r.IndexReady(),
		Model:          r.generator.Model(),
		EmbeddingModel: r.embeddingModel,
	}, nil
}

// Health probes the generation backend and the store independently. Probe
// failures are reported, never propagated.
func (r *ragServiceImpl) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{IndexReady: r.IndexReady()}

	if err := r.generator.Probe(ctx); err != nil {
		log.Printf("SERVICE WARN: LLM probe failed: %v", err)
		status.LLMError = err.Error()
	} else {
		status.LLMConnected = true
	}

	if _, err := r.store.Count(ctx); err != nil {
		log.Printf("SERVICE WARN: Store probe failed: %v", err)
		status.StoreError = err.Error()
	} else {
		status.StoreConnected = true
	}
	return status
}
