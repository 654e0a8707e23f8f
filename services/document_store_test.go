package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestDocStore(t *testing.T) *DocumentStore {
	t.Helper()
	store, err := NewDocumentStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDocumentStore() error = %v", err)
	}
	return store
}

func TestDocumentStoreSaveAndList(t *testing.T) {
	store := newTestDocStore(t)

	path, err := store.Save("report.txt", strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Dir(path) != store.Dir() {
		t.Errorf("Save() wrote outside the upload dir: %s", path)
	}

	documents, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(documents) != 1 {
		t.Fatalf("List() returned %d entries, want 1", len(documents))
	}
	if documents[0].Filename != "report.txt" {
		t.Errorf("Filename = %q", documents[0].Filename)
	}
	if documents[0].Size != int64(len("hello world")) {
		t.Errorf("Size = %d, want %d", documents[0].Size, len("hello world"))
	}
	if documents[0].UploadTime == "" {
		t.Error("UploadTime missing")
	}
}

func TestDocumentStorePathStripsTraversal(t *testing.T) {
	store := newTestDocStore(t)

	path := store.Path("../../etc/passwd")
	if filepath.Dir(path) != store.Dir() {
		t.Errorf("Path() escaped the upload dir: %s", path)
	}
	if filepath.Base(path) != "passwd" {
		t.Errorf("Path() base = %q", filepath.Base(path))
	}
}

func TestDocumentStoreExistsAndRemove(t *testing.T) {
	store := newTestDocStore(t)
	store.Save("doc.md", strings.NewReader("x"))

	if !store.Exists("doc.md") {
		t.Error("Exists() = false for a stored file")
	}
	if store.Exists("ghost.md") {
		t.Error("Exists() = true for a missing file")
	}

	if err := store.Remove("doc.md"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if store.Exists("doc.md") {
		t.Error("file still present after Remove()")
	}
	if err := store.Remove("doc.md"); err == nil {
		t.Error("Remove() of a missing file should error")
	}
}

func TestDocumentStoreClear(t *testing.T) {
	store := newTestDocStore(t)
	store.Save("a.txt", strings.NewReader("a"))
	store.Save("b.txt", strings.NewReader("b"))

	// Subdirectories are left alone.
	os.Mkdir(filepath.Join(store.Dir(), "sub"), 0o755)

	deleted, err := store.Clear()
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("Clear() deleted %d, want 2", deleted)
	}

	documents, _ := store.List()
	if len(documents) != 0 {
		t.Errorf("List() after clear = %v", documents)
	}
}
