package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bjeber/docfind/internal/textindex"
)

const chunkPrefix = "chunk-"

// Export persists an index and its metadata under storeDir. The chunk
// set and metadata are written to a temporary sibling directory and
// swapped in with a rename, so a crash mid-export never leaves a store
// whose metadata claims freshness over an incomplete chunk set.
func Export(index textindex.Index, storeDir string, meta *Metadata) error {
	parent := filepath.Dir(storeDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("failed to create store parent directory: %w", err)
	}

	tmpDir, err := os.MkdirTemp(parent, filepath.Base(storeDir)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp store directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	err = index.Export(func(key string, data []byte) error {
		name := chunkPrefix + key + ".json"
		if err := os.WriteFile(filepath.Join(tmpDir, name), data, 0644); err != nil {
			return fmt.Errorf("failed to write index chunk: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, metadataFile), metaData, 0644); err != nil {
		return fmt.Errorf("failed to write index metadata: %w", err)
	}

	// The document cache lives in the same directory and must survive
	// the swap.
	if docCache, err := os.ReadFile(filepath.Join(storeDir, docCacheFile)); err == nil {
		if err := os.WriteFile(filepath.Join(tmpDir, docCacheFile), docCache, 0644); err != nil {
			return fmt.Errorf("failed to carry over document cache: %w", err)
		}
	}

	// Swap the finished directory into place.
	if err := os.RemoveAll(storeDir); err != nil {
		return fmt.Errorf("failed to clear old store: %w", err)
	}
	if err := os.Rename(tmpDir, storeDir); err != nil {
		return fmt.Errorf("failed to move store into place: %w", err)
	}

	return nil
}

// Import rehydrates an index from all chunk files in a store directory.
// Any read or decode failure returns an error; callers fall back to a
// full rebuild rather than serving a partial index.
func Import(storeDir string) (textindex.Index, error) {
	entries, err := os.ReadDir(storeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	chunks := map[string][]byte{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, chunkPrefix) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(storeDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read index chunk %s: %w", name, err)
		}

		key := strings.TrimSuffix(strings.TrimPrefix(name, chunkPrefix), ".json")
		chunks[key] = data
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("store directory %s has no index chunks", storeDir)
	}

	return textindex.Import(chunks)
}

// Clear removes the store directory entirely.
func Clear(storeDir string) error {
	if err := os.RemoveAll(storeDir); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}

// Stats describes the on-disk footprint of a store.
type Stats struct {
	Exists     bool
	FileCount  int
	ChunkCount int
	SizeBytes  int64
	BuiltAt    string
}

// ReadStats inspects a store directory without importing it.
func ReadStats(storeDir string) Stats {
	var stats Stats

	entries, err := os.ReadDir(storeDir)
	if err != nil {
		return stats
	}
	stats.Exists = true

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if info, err := entry.Info(); err == nil {
			stats.SizeBytes += info.Size()
		}
		if strings.HasPrefix(entry.Name(), chunkPrefix) {
			stats.ChunkCount++
		}
	}

	if meta, err := LoadMetadata(storeDir); err == nil {
		stats.FileCount = meta.FileCount
		stats.BuiltAt = meta.BuiltAt.Format("2006-01-02 15:04:05")
	}

	return stats
}
