package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjeber/docfind/internal/docs"
	"github.com/bjeber/docfind/internal/fingerprint"
	"github.com/bjeber/docfind/internal/textindex"
)

// TEST PLAN: Persisted Index Store
//
// The store holds meta.json (schema version, build time, file count,
// path → fingerprint) plus opaque index chunk files. Freshness fails
// closed: a store is fresh only when version, count, and every live
// fingerprint line up. Export swaps a complete temp directory into
// place so metadata can never claim freshness over a partial chunk set.
//
// Test Cases:
// 1. Fresh immediately after export
// 2. Missing store / corrupt metadata → not fresh
// 3. Schema version mismatch → not fresh
// 4. Touched file → not fresh (freshness monotonicity)
// 5. Added/removed file → not fresh (count check)
// 6. Export/import round trip preserves documents
// 7. Corrupt chunk → import error
// 8. Rebuilding over an unchanged set yields identical metadata
// 9. Export leaves no temp directories behind
// 10. Document cache degrades to empty on corruption or version skew

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// corpus creates a few markdown files and returns their entries.
func corpus(t *testing.T, root string, names ...string) []docs.FileEntry {
	t.Helper()
	entries := make([]docs.FileEntry, 0, len(names))
	for _, name := range names {
		path := filepath.Join(root, name)
		writeFile(t, path, "# "+name+"\n\nbody of "+name+"\n")
		entries = append(entries, docs.FileEntry{Path: path, RelPath: name})
	}
	return entries
}

// buildIndex parses the entries into a populated index.
func buildIndex(t *testing.T, files []docs.FileEntry) textindex.Index {
	t.Helper()
	idx, err := textindex.New()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	for _, f := range files {
		rec, err := docs.ParseFile(f.Path, f.RelPath)
		require.NoError(t, err)
		rec.Hash = fingerprint.File(f.Path)
		require.NoError(t, idx.Add(rec))
	}
	return idx
}

func TestIsFresh_AfterExport(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := corpus(t, root, "a.md", "b.md")
	storeDir := filepath.Join(root, ".docfind", "index")

	idx := buildIndex(t, files)
	require.NoError(t, Export(idx, storeDir, NewMetadata(files)))

	assert.True(t, IsFresh(storeDir, files))
}

func TestIsFresh_MissingStore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := corpus(t, root, "a.md")
	assert.False(t, IsFresh(filepath.Join(root, "no-store"), files))
}

func TestIsFresh_CorruptMetadata(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := corpus(t, root, "a.md")
	storeDir := filepath.Join(root, "store")
	writeFile(t, filepath.Join(storeDir, "meta.json"), "{not json")

	assert.False(t, IsFresh(storeDir, files))
}

func TestIsFresh_VersionMismatch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := corpus(t, root, "a.md")
	storeDir := filepath.Join(root, "store")

	idx := buildIndex(t, files)
	meta := NewMetadata(files)
	meta.Version = SchemaVersion - 1
	require.NoError(t, Export(idx, storeDir, meta))

	assert.False(t, IsFresh(storeDir, files))
}

func TestIsFresh_FileTouched(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := corpus(t, root, "a.md", "b.md")
	storeDir := filepath.Join(root, "store")

	idx := buildIndex(t, files)
	require.NoError(t, Export(idx, storeDir, NewMetadata(files)))
	require.True(t, IsFresh(storeDir, files))

	touched := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(files[0].Path, touched, touched))

	assert.False(t, IsFresh(storeDir, files), "touched file must invalidate the store")
}

func TestIsFresh_FileSetChanged(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := corpus(t, root, "a.md", "b.md")
	storeDir := filepath.Join(root, "store")

	idx := buildIndex(t, files)
	require.NoError(t, Export(idx, storeDir, NewMetadata(files)))

	added := corpus(t, root, "c.md")
	assert.False(t, IsFresh(storeDir, append(files, added...)), "added file")
	assert.False(t, IsFresh(storeDir, files[:1]), "removed file")
}

func TestExportImport_RoundTrip(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := corpus(t, root, "a.md", "b.md", "c.md")
	storeDir := filepath.Join(root, "store")

	idx := buildIndex(t, files)
	require.NoError(t, Export(idx, storeDir, NewMetadata(files)))

	imported, err := Import(storeDir)
	require.NoError(t, err)
	defer imported.Close()

	assert.Equal(t, 3, imported.Count())
	rec, ok := imported.Get(files[0].Path)
	require.True(t, ok)
	assert.Equal(t, "a.md", rec.RelPath)
}

func TestImport_CorruptChunk(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := corpus(t, root, "a.md")
	storeDir := filepath.Join(root, "store")

	idx := buildIndex(t, files)
	require.NoError(t, Export(idx, storeDir, NewMetadata(files)))

	// Corrupt every chunk file.
	entries, err := os.ReadDir(storeDir)
	require.NoError(t, err)
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "chunk-") {
			writeFile(t, filepath.Join(storeDir, entry.Name()), "garbage")
		}
	}

	_, err = Import(storeDir)
	assert.Error(t, err)
}

func TestNewMetadata_IdempotentRebuild(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := corpus(t, root, "a.md", "b.md")

	first := NewMetadata(files)
	second := NewMetadata(files)

	assert.Equal(t, first.FileCount, second.FileCount)
	assert.Equal(t, first.Hashes, second.Hashes)
}

func TestExport_NoTempDirsLeft(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := corpus(t, root, "a.md")
	storeDir := filepath.Join(root, "cache", "index")

	idx := buildIndex(t, files)
	require.NoError(t, Export(idx, storeDir, NewMetadata(files)))
	// Export twice to exercise the replace path as well.
	require.NoError(t, Export(idx, storeDir, NewMetadata(files)))

	siblings, err := os.ReadDir(filepath.Dir(storeDir))
	require.NoError(t, err)
	require.Len(t, siblings, 1)
	assert.Equal(t, "index", siblings[0].Name())
}

func TestDocCache_RoundTrip(t *testing.T) {
	t.Parallel()

	storeDir := filepath.Join(t.TempDir(), "store")

	cache := LoadDocCache(storeDir)
	assert.Empty(t, cache.Documents)

	cache.Documents["/abs/a.md"] = &docs.DocumentRecord{
		Path: "/abs/a.md", RelPath: "a.md", Title: "A", Hash: "abc",
	}
	require.NoError(t, SaveDocCache(storeDir, cache))

	loaded := LoadDocCache(storeDir)
	require.Contains(t, loaded.Documents, "/abs/a.md")
	assert.Equal(t, "A", loaded.Documents["/abs/a.md"].Title)
	assert.False(t, loaded.CachedAt.IsZero())
}

func TestDocCache_SurvivesExport(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := corpus(t, root, "a.md")
	storeDir := filepath.Join(root, ".docfind", "index")

	cache := LoadDocCache(storeDir)
	cache.Documents[files[0].Path] = &docs.DocumentRecord{
		Path: files[0].Path, RelPath: "a.md", Title: "A", Hash: "abc",
	}
	require.NoError(t, SaveDocCache(storeDir, cache))

	idx := buildIndex(t, files)
	require.NoError(t, Export(idx, storeDir, NewMetadata(files)))

	loaded := LoadDocCache(storeDir)
	assert.Contains(t, loaded.Documents, files[0].Path,
		"export replaces the store directory but keeps the document cache")
}

func TestDocCache_DegradesOnCorruption(t *testing.T) {
	t.Parallel()

	storeDir := filepath.Join(t.TempDir(), "store")
	writeFile(t, filepath.Join(storeDir, "docs.json"), "{broken")

	cache := LoadDocCache(storeDir)
	assert.Empty(t, cache.Documents)
}

func TestDocCache_VersionMismatch(t *testing.T) {
	t.Parallel()

	storeDir := filepath.Join(t.TempDir(), "store")
	writeFile(t, filepath.Join(storeDir, "docs.json"),
		`{"version": 1, "documents": {"/a.md": {"path": "/a.md"}}}`)

	cache := LoadDocCache(storeDir)
	assert.Empty(t, cache.Documents, "older schema must not be trusted")
}
