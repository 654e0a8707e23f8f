package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ragagent/models"
)

// DocumentStore manages the uploaded files on disk.
type DocumentStore struct {
	dir string
}

// NewDocumentStore binds the store to the upload directory.
func NewDocumentStore(uploadDir string) (*DocumentStore, error) {
	absPath, err := filepath.Abs(uploadDir)
	if err != nil {
		return nil, fmt.Errorf("could not determine absolute path for upload dir: %w", err)
	}
	return &DocumentStore{dir: absPath}, nil
}

// Dir returns the absolute upload directory path.
func (d *DocumentStore) Dir() string {
	return d.dir
}

// Path resolves a client-supplied filename to a path inside the upload
// directory. Only the base name is used, so traversal segments are discarded.
func (d *DocumentStore) Path(filename string) string {
	return filepath.Join(d.dir, filepath.Base(filename))
}

// Save writes an uploaded file to the store and returns its path.
func (d *DocumentStore) Save(filename string, src io.Reader) (string, error) {
	path := d.Path(filename)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

// List returns metadata for every stored file, sorted by name.
func (d *DocumentStore) List() ([]models.DocumentInfo, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	documents := make([]models.DocumentInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		documents = append(documents, models.DocumentInfo{
			Filename:   entry.Name(),
			Size:       info.Size(),
			UploadTime: info.ModTime().Format(time.RFC3339),
		})
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].Filename < documents[j].Filename
	})
	return documents, nil
}

// Exists reports whether a stored file with this name exists.
func (d *DocumentStore) Exists(filename string) bool {
	info, err := os.Stat(d.Path(filename))
	return err == nil && !info.IsDir()
}

// Remove deletes one stored file.
func (d *DocumentStore) Remove(filename string) error {
	if err := os.Remove(d.Path(filename)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", filepath.Base(filename), err)
	}
	return nil
}

// Clear deletes every stored file and returns how many were removed.
func (d *DocumentStore) Clear() (int, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read upload directory: %w", err)
	}
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(d.dir, entry.Name())); err != nil {
			return deleted, fmt.Errorf("failed to delete %s: %w", entry.Name(), err)
		}
		deleted++
	}
	return deleted, nil
}
