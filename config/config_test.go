package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OllamaBaseURL != "http://localhost:11434" {
		t.Errorf("OllamaBaseURL = %q", cfg.OllamaBaseURL)
	}
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
	if cfg.MaxFileSize != 10485760 {
		t.Errorf("MaxFileSize = %d, want 10485760", cfg.MaxFileSize)
	}
	if cfg.ChunkSize != 512 || cfg.ChunkOverlap != 50 {
		t.Errorf("chunking = %d/%d, want 512/50", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.LLMBackend != "ollama" || cfg.VectorBackend != "chroma" {
		t.Errorf("backends = %s/%s", cfg.LLMBackend, cfg.VectorBackend)
	}
	if cfg.WatchUploadDir {
		t.Error("WatchUploadDir should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("VECTOR_BACKEND", "memory")
	t.Setenv("COLLECTION_NAME", "notes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9001 {
		t.Errorf("Port = %d, want 9001", cfg.Port)
	}
	if cfg.VectorBackend != "memory" {
		t.Errorf("VectorBackend = %q, want memory", cfg.VectorBackend)
	}
	if cfg.CollectionName != "notes" {
		t.Errorf("CollectionName = %q, want notes", cfg.CollectionName)
	}
}

func TestLoadMalformedIntFailsFast(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "ten megabytes")
	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail on a malformed integer")
	}
}

func TestLoadMalformedBoolFailsFast(t *testing.T) {
	t.Setenv("WATCH_UPLOAD_DIR", "maybe")
	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail on a malformed boolean")
	}
}

func TestLoadUnknownBackends(t *testing.T) {
	t.Setenv("LLM_BACKEND", "gpt4all")
	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject an unknown LLM_BACKEND")
	}

	t.Setenv("LLM_BACKEND", "ollama")
	t.Setenv("VECTOR_BACKEND", "qdrant")
	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject an unknown VECTOR_BACKEND")
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	t.Setenv("CHROMA_PERSIST_DIR", filepath.Join(base, "nested", "chroma"))
	t.Setenv("UPLOAD_DIR", filepath.Join(base, "nested", "uploads"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}
	for _, dir := range []string{cfg.ChromaPersistDir, cfg.UploadDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s was not created", dir)
		}
	}

	// Idempotent on existing directories.
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() second call error = %v", err)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Settings{Host: "127.0.0.1", Port: 8000}
	if got := cfg.Addr(); got != "127.0.0.1:8000" {
		t.Errorf("Addr() = %q", got)
	}
}
