package models

// QueryResponse carries the generated answer, the supporting source excerpts
// (each truncated to a fixed preview length) and query metadata.
type QueryResponse struct {
	Answer   string         `json:"answer"`
	Sources  []string       `json:"sources"`
	Metadata map[string]any `json:"metadata"`
}

// DocumentInfo describes one uploaded file.
type DocumentInfo struct {
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	UploadTime string `json:"upload_time"`
	NumChunks  int    `json:"num_chunks,omitempty"`
}

// UploadResponse is returned after a successful upload and ingestion.
type UploadResponse struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Document *DocumentInfo `json:"document,omitempty"`
}

// DocumentListResponse is the body of GET /documents.
type DocumentListResponse struct {
	Documents      []DocumentInfo `json:"documents"`
	TotalDocuments int            `json:"total_documents"`
	TotalChunks    int            `json:"total_chunks"`
}

// HealthResponse aggregates backend reachability into one status.
type HealthResponse struct {
	Status         string `json:"status"`
	LLMConnected   bool   `json:"llm_connected"`
	StoreConnected bool   `json:"store_connected"`
	Model          string `json:"model"`
	LLMError       string `json:"llm_error,omitempty"`
	StoreError     string `json:"store_error,omitempty"`
}

// DeleteResponse is returned by DELETE /clear and DELETE /documents/:filename.
type DeleteResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	NumChunks      int    `json:"num_chunks"`
	IndexReady     bool   `json:"index_ready"`
	Model          string `json:"model"`
	EmbeddingModel string `json:"embedding_model"`
}

// ErrorResponse is the uniform error body for 4xx/5xx replies.
type ErrorResponse struct {
	Error string `json:"error"`
}
