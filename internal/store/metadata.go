// Package store persists the search index and the parsed document cache
// under a fixed directory, and answers whether the persisted index still
// reflects the live file set.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bjeber/docfind/internal/docs"
	"github.com/bjeber/docfind/internal/fingerprint"
)

// SchemaVersion invalidates every prior on-disk store when the format
// changes. There is no migration path: a version bump forces a clean
// rebuild.
const SchemaVersion = 3

const metadataFile = "meta.json"

// Metadata describes the file set an index was built from.
type Metadata struct {
	Version   int               `json:"version"`
	BuiltAt   time.Time         `json:"built_at"`
	FileCount int               `json:"file_count"`
	Hashes    map[string]string `json:"hashes"` // path → fingerprint at build time
}

// NewMetadata computes fresh metadata for a file set. Every fingerprint
// is recomputed so the next freshness check is correct even when only a
// subset of files was re-parsed.
func NewMetadata(files []docs.FileEntry) *Metadata {
	hashes := make(map[string]string, len(files))
	for _, f := range files {
		hashes[f.Path] = fingerprint.File(f.Path)
	}

	return &Metadata{
		Version:   SchemaVersion,
		BuiltAt:   time.Now(),
		FileCount: len(files),
		Hashes:    hashes,
	}
}

// LoadMetadata reads metadata from a store directory. Unlike the
// document cache, this fails closed: any read or parse problem is an
// error so the caller treats the store as stale.
func LoadMetadata(storeDir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(storeDir, metadataFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read index metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse index metadata: %w", err)
	}

	if meta.Hashes == nil {
		meta.Hashes = map[string]string{}
	}

	return &meta, nil
}

// IsFresh reports whether the persisted index exactly reflects the
// current file set: matching schema version, matching file count, and
// every live fingerprint equal to the stored one. Removed files are
// implicitly caught by the count check.
func IsFresh(storeDir string, files []docs.FileEntry) bool {
	meta, err := LoadMetadata(storeDir)
	if err != nil {
		return false
	}

	if meta.Version != SchemaVersion {
		return false
	}

	if meta.FileCount != len(files) || len(meta.Hashes) != len(files) {
		return false
	}

	for _, f := range files {
		stored, ok := meta.Hashes[f.Path]
		if !ok {
			return false
		}
		if fingerprint.File(f.Path) != stored {
			return false
		}
	}

	return true
}
