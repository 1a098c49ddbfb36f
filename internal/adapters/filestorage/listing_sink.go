// Package filestorage is the debug sink: collected listings land as
// pretty-printed JSON files, one file per source per run.
package filestorage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Oikion/mvp-sub003/internal/contextkeys"
	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/Oikion/mvp-sub003/internal/core/port"
	"github.com/google/uuid"
)

// FileListingSinkAdapter implements ListingSinkPort on the local
// filesystem. Safe for concurrent Save calls from per-source goroutines.
type FileListingSinkAdapter struct {
	outputDir string
	mu        sync.Mutex
}

func NewFileListingSinkAdapter(outputDir string) (*FileListingSinkAdapter, error) {
	if outputDir == "" {
		outputDir = "output"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("file sink: failed to create output dir %s: %w", outputDir, err)
	}
	return &FileListingSinkAdapter{outputDir: outputDir}, nil
}

// Save writes the run's listings to "<sourceID>_<runID>.json". An empty
// run still produces a file so a zero-yield source is visible.
func (a *FileListingSinkAdapter) Save(ctx context.Context, sourceID string, runID uuid.UUID, listings []domain.RawListing) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "FileListingSinkAdapter",
		"source":    sourceID,
	})

	if listings == nil {
		listings = []domain.RawListing{}
	}

	payload, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return fmt.Errorf("file sink: failed to marshal listings for %s: %w", sourceID, err)
	}

	path := filepath.Join(a.outputDir, fmt.Sprintf("%s_%s.json", sourceID, runID))

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("file sink: failed to write %s: %w", path, err)
	}

	logger.Info("Listings written", port.Fields{"path": path, "listings": len(listings)})
	return nil
}
