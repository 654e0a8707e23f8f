package models

// Chunk is the unit of retrieval: a bounded span of document text plus its
// embedding vector and the source file it came from.
type Chunk struct {
	ID        string
	Text      string
	Embedding []float32
	Source    string
	Index     int
}

// Retrieved is a chunk returned from a similarity query.
type Retrieved struct {
	Text   string
	Source string
}

// IngestResult reports what one ingestion run produced.
type IngestResult struct {
	NumDocuments int `json:"num_documents"`
	NumChunks    int `json:"num_chunks"`
}
