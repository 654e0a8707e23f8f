package services

import (
	"context"
	"log"

	"github.com/fsnotify/fsnotify"
)

// WatcherService keeps the index in sync with the upload directory: files
// dropped in are ingested, files removed have their chunks pruned. It is
// optional and disabled by default; the HTTP surface works without it.
type WatcherService struct {
	ragService RAGService
}

// NewWatcherService creates a watcher bound to the orchestrator.
func NewWatcherService(ragService RAGService) *WatcherService {
	return &WatcherService{ragService: ragService}
}

// WatchDirectory blocks until the context is cancelled, reacting to file
// changes in real time. Every mutation goes through the orchestrator so the
// index-presence invariant holds.
func (s *WatcherService) WatchDirectory(ctx context.Context, dirPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WATCHER ERROR: Failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !IsSupportedFile(event.Name) {
					continue
				}

				// Many editors write by creating a temp file and renaming,
				// which can fire multiple events; Create and Write are
				// handled the same way.
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					log.Printf("WATCHER: File modified/created: %s. Re-indexing...", event.Name)
					if err := s.ragService.RemoveDocument(ctx, event.Name); err != nil {
						log.Printf("WATCHER WARN: Could not drop stale chunks for %s: %v", event.Name, err)
					}
					if _, err := s.ragService.Ingest(ctx, []string{event.Name}); err != nil {
						log.Printf("WATCHER ERROR: Failed to ingest %s: %v", event.Name, err)
					}
				} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					log.Printf("WATCHER: File removed/renamed: %s. Removing from index...", event.Name)
					if err := s.ragService.RemoveDocument(ctx, event.Name); err != nil {
						log.Printf("WATCHER ERROR: Failed to delete records for %s: %v", event.Name, err)
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("WATCHER ERROR: %v", err)
			case <-ctx.Done():
				log.Println("WATCHER: Context cancelled, shutting down watcher.")
				return
			}
		}
	}()

	log.Printf("WATCHER: Watching directory: %s", dirPath)
	if err := watcher.Add(dirPath); err != nil {
		log.Printf("WATCHER ERROR: Failed to add path to watcher: %v", err)
	}

	<-ctx.Done()
}
