package config

import (
	"fmt"
	"os"
	"strconv"
)

// Settings holds every deployment parameter for the service. It is populated
// once at startup from the process environment and never mutated afterwards.
type Settings struct {
	// Ollama configuration
	OllamaBaseURL        string
	OllamaModel          string
	OllamaEmbeddingModel string

	// Generation backend selection: "ollama" or "gemini".
	LLMBackend   string
	GeminiAPIKey string
	GeminiModel  string

	// Vector storage backend selection: "chroma" or "memory".
	VectorBackend    string
	ChromaURL        string
	ChromaPersistDir string
	CollectionName   string

	// Server configuration
	Host string
	Port int

	// Upload configuration
	UploadDir      string
	MaxFileSize    int64
	WatchUploadDir bool

	// Chunking parameters
	ChunkSize    int
	ChunkOverlap int

	// UniDoc metered license key for PDF extraction.
	UnidocLicenseKey string
}

// Load resolves all settings from environment variables, applying defaults
// for anything unset. Malformed integers or unknown backend names are a
// startup failure, not a silent default.
func Load() (*Settings, error) {
	s := &Settings{
		OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:          getEnv("OLLAMA_MODEL", "llama3.2:3b"),
		OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text:v1.5"),
		LLMBackend:           getEnv("LLM_BACKEND", "ollama"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		VectorBackend:        getEnv("VECTOR_BACKEND", "chroma"),
		ChromaURL:            getEnv("CHROMA_URL", "http://localhost:8000"),
		ChromaPersistDir:     getEnv("CHROMA_PERSIST_DIR", "./chroma_db"),
		CollectionName:       getEnv("COLLECTION_NAME", "documents"),
		Host:                 getEnv("HOST", "0.0.0.0"),
		UploadDir:            getEnv("UPLOAD_DIR", "./uploads"),
		UnidocLicenseKey:     os.Getenv("UNIDOC_LICENSE_KEY"),
	}

	var err error
	if s.Port, err = getEnvInt("PORT", 8000); err != nil {
		return nil, err
	}
	maxSize, err := getEnvInt("MAX_FILE_SIZE", 10485760) // 10MB
	if err != nil {
		return nil, err
	}
	s.MaxFileSize = int64(maxSize)
	if s.ChunkSize, err = getEnvInt("CHUNK_SIZE", 512); err != nil {
		return nil, err
	}
	if s.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 50); err != nil {
		return nil, err
	}
	if s.WatchUploadDir, err = getEnvBool("WATCH_UPLOAD_DIR", false); err != nil {
		return nil, err
	}

	switch s.LLMBackend {
	case "ollama", "gemini":
	default:
		return nil, fmt.Errorf("config: unknown LLM_BACKEND %q (expected ollama or gemini)", s.LLMBackend)
	}
	switch s.VectorBackend {
	case "chroma", "memory":
	default:
		return nil, fmt.Errorf("config: unknown VECTOR_BACKEND %q (expected chroma or memory)", s.VectorBackend)
	}

	return s, nil
}

// EnsureDirectories creates the vector persistence and upload directories,
// including parents. Succeeds silently if they already exist.
func (s *Settings) EnsureDirectories() error {
	for _, dir := range []string{s.ChromaPersistDir, s.UploadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: could not create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Addr returns the host:port bind address for the HTTP server.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s must be a boolean, got %q", key, v)
	}
	return b, nil
}
