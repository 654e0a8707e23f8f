package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"ragagent/models"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/google/uuid"
)

// ChromaStore implements VectorStore on top of a ChromaDB server using the
// v2 API. Reset swaps the collection handle under a mutex so concurrent
// readers never see a deleted collection.
type ChromaStore struct {
	client chromago.Client
	name   string

	mu         sync.RWMutex
	collection chromago.Collection
}

// NewChromaStore connects to an existing or new collection.
func NewChromaStore(client chromago.Client, collectionName string) (*ChromaStore, error) {
	collection, err := getOrCreateCollection(context.Background(), client, collectionName)
	if err != nil {
		return nil, err
	}
	return &ChromaStore{
		client:     client,
		name:       collectionName,
		collection: collection,
	}, nil
}

func getOrCreateCollection(ctx context.Context, client chromago.Client, name string) (chromago.Collection, error) {
	collection, err := client.GetOrCreateCollection(
		ctx,
		name,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "RAG document collection"),
				chromago.NewStringAttribute("created_by", "rag_service"),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection %s: %w", name, err)
	}
	return collection, nil
}

func (s *ChromaStore) current() chromago.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection
}

// Add inserts the chunks one record at a time, each carrying its source file
// and position as metadata.
func (s *ChromaStore) Add(ctx context.Context, chunks []models.Chunk) error {
	collection := s.current()
	for _, chunk := range chunks {
		id := chunk.ID
		if id == "" {
			id = fmt.Sprintf("%s-chunk%d", uuid.New().String(), chunk.Index)
		}
		embedding := embeddings.NewEmbeddingFromFloat32(chunk.Embedding)
		metadata := chromago.NewDocumentMetadata(
			chromago.NewStringAttribute("source_file", chunk.Source),
			chromago.NewIntAttribute("chunk_num", int64(chunk.Index)),
		)
		err := collection.Add(ctx,
			chromago.WithIDs(chromago.DocumentID(id)),
			chromago.WithTexts(chunk.Text),
			chromago.WithEmbeddings(embedding),
			chromago.WithMetadatas(metadata),
		)
		if err != nil {
			return fmt.Errorf("failed to add chunk %d to chromadb: %w", chunk.Index, err)
		}
	}
	return nil
}

// Query embeds nothing itself; it searches with the caller-supplied vector.
func (s *ChromaStore) Query(ctx context.Context, embedding []float32, topK int) ([]models.Retrieved, error) {
	collection := s.current()
	queryEmbedding := embeddings.NewEmbeddingFromFloat32(embedding)
	results, err := collection.Query(
		ctx,
		chromago.WithQueryEmbeddings(queryEmbedding),
		chromago.WithNResults(topK),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	var retrieved []models.Retrieved
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()
	if len(documentGroups) == 0 {
		return retrieved, nil
	}
	for i, doc := range documentGroups[0] {
		if doc.ContentString() == "" {
			continue
		}
		source := ""
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) && metadataGroups[0][i] != nil {
			// DocumentMetadata exposes no map accessor; round-trip through
			// JSON to read individual attributes.
			jsonBytes, err := json.Marshal(metadataGroups[0][i])
			if err == nil {
				var metadataMap map[string]any
				if err := json.Unmarshal(jsonBytes, &metadataMap); err == nil {
					if v, ok := metadataMap["source_file"].(string); ok {
						source = v
					}
				}
			}
		}
		retrieved = append(retrieved, models.Retrieved{
			Text:   doc.ContentString(),
			Source: source,
		})
	}
	return retrieved, nil
}

// Count reports how many chunks the collection holds.
func (s *ChromaStore) Count(ctx context.Context) (int, error) {
	count, err := s.current().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items in collection: %w", err)
	}
	return int(count), nil
}

// DeleteBySource removes all chunks whose source_file metadata matches.
func (s *ChromaStore) DeleteBySource(ctx context.Context, source string) error {
	where := chromago.EqString("source_file", source)
	if err := s.current().Delete(ctx, chromago.WithWhereDelete(where)); err != nil {
		return fmt.Errorf("failed to delete chunks for %s: %w", source, err)
	}
	return nil
}

// Reset drops the collection and recreates it empty, swapping the handle
// atomically so in-flight operations on the old handle fail cleanly rather
// than observing a half-reset store.
func (s *ChromaStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.DeleteCollection(ctx, s.name); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", s.name, err)
	}
	collection, err := getOrCreateCollection(ctx, s.client, s.name)
	if err != nil {
		return err
	}
	s.collection = collection
	log.Printf("STORE: Collection %s reset", s.name)
	return nil
}
