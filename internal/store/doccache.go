package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bjeber/docfind/internal/docs"
)

const docCacheFile = "docs.json"

// DocCache is the persisted parsed-document set, keyed by absolute path.
// It exists so warm invocations only re-parse the delta.
type DocCache struct {
	Version   int                             `json:"version"`
	CachedAt  time.Time                       `json:"cached_at"`
	Documents map[string]*docs.DocumentRecord `json:"documents"`
}

// LoadDocCache reads the document cache from a store directory.
// Missing, unreadable, corrupt, or version-mismatched caches all
// degrade to an empty cache so the caller re-parses everything.
func LoadDocCache(storeDir string) *DocCache {
	empty := &DocCache{
		Version:   SchemaVersion,
		Documents: map[string]*docs.DocumentRecord{},
	}

	data, err := os.ReadFile(filepath.Join(storeDir, docCacheFile))
	if err != nil {
		return empty
	}

	var cache DocCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return empty
	}

	if cache.Version != SchemaVersion || cache.Documents == nil {
		return empty
	}

	return &cache
}

// SaveDocCache writes the document cache atomically (temp + rename).
func SaveDocCache(storeDir string, cache *DocCache) error {
	if err := os.MkdirAll(storeDir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	cache.Version = SchemaVersion
	cache.CachedAt = time.Now()

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document cache: %w", err)
	}

	path := filepath.Join(storeDir, docCacheFile)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp document cache: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename document cache: %w", err)
	}

	return nil
}
