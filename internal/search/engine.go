// Package search is the index lifecycle and query evaluation engine:
// it keeps the persisted index consistent with the live file set and
// evaluates parsed queries against it.
package search

import (
	"sort"
	"time"

	"github.com/bjeber/docfind/internal/docs"
	"github.com/bjeber/docfind/internal/memcache"
	"github.com/bjeber/docfind/internal/snippet"
	"github.com/bjeber/docfind/internal/store"
)

// EngineConfig wires an Engine.
type EngineConfig struct {
	// StoreDir is the on-disk index store directory.
	StoreDir string

	// IndexingEnabled persists the index; when false every call builds
	// an ephemeral index.
	IndexingEnabled bool

	// TTL is the in-memory cache trust window (0 = default).
	TTL time.Duration

	// Weights are the scoring tier multipliers (zero value = defaults).
	Weights Weights

	// SnippetLimits bound result previews (zero value = defaults).
	SnippetLimits snippet.Limits

	// Progress receives build callbacks (nil = silent).
	Progress ProgressReporter
}

// Engine is the search entry point plus the cache management surface.
// It is single-threaded per invocation: concurrent callers need their
// own Engine or external locking around cache mutation.
type Engine struct {
	storeDir string
	indexing bool
	session  *memcache.Session
	weights  Weights
	limits   snippet.Limits
	progress ProgressReporter
}

// Options tune one search call.
type Options struct {
	// Limit caps the ranked results (0 = DefaultLimit).
	Limit int
}

// DefaultLimit is the result cap when the caller does not set one.
const DefaultLimit = 20

// NewEngine creates an engine with its own cache session.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	session, err := memcache.NewSession(cfg.TTL)
	if err != nil {
		return nil, err
	}

	weights := cfg.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}

	limits := cfg.SnippetLimits
	if limits == (snippet.Limits{}) {
		limits = snippet.DefaultLimits()
	}

	progress := cfg.Progress
	if progress == nil {
		progress = noopProgress{}
	}

	return &Engine{
		storeDir: cfg.StoreDir,
		indexing: cfg.IndexingEnabled,
		session:  session,
		weights:  weights,
		limits:   limits,
		progress: progress,
	}, nil
}

// Search evaluates a raw query over the file set and returns ranked
// results with previews. The index is refreshed first if stale.
func (e *Engine) Search(files []docs.FileEntry, rawQuery string, opts Options) ([]RankedResult, error) {
	plan := ParseQuery(rawQuery)
	if plan.Empty() {
		return nil, nil
	}

	idx, documents, err := e.ensureIndex(files)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	return evaluate(idx, documents, plan, e.weights, e.limits, limit)
}

// Documents returns the up-to-date document list without querying.
// Used by the grep engine, which scans bodies directly.
func (e *Engine) Documents(files []docs.FileEntry) ([]*docs.DocumentRecord, error) {
	if !e.indexing {
		return parseAll(files), nil
	}
	return e.loadDocuments(files)
}

// IsFresh reports whether the persisted store reflects the file set.
func (e *Engine) IsFresh(files []docs.FileEntry) bool {
	return e.indexing && store.IsFresh(e.storeDir, files)
}

// Build forces a full rebuild: caches cleared, every file re-parsed and
// re-indexed, store re-exported. Returns the indexed document count.
func (e *Engine) Build(files []docs.FileEntry) (int, error) {
	e.session.Clear()
	if err := store.Clear(e.storeDir); err != nil {
		return 0, err
	}

	_, documents, err := e.ensureIndex(files)
	if err != nil {
		return 0, err
	}

	return len(documents), nil
}

// Clear drops both cache tiers.
func (e *Engine) Clear() error {
	e.session.Clear()
	return store.Clear(e.storeDir)
}

// EngineStats combines the on-disk and in-memory cache views.
type EngineStats struct {
	Store store.Stats
	Cache memcache.Stats
}

// Stats returns a snapshot for the cache status commands.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Store: store.ReadStats(e.storeDir),
		Cache: e.session.Stats(),
	}
}

// Session exposes the cache handle. Test hook.
func (e *Engine) Session() *memcache.Session {
	return e.session
}

// identity returns the sorted identity set for a file list.
func identity(files []docs.FileEntry) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	sort.Strings(paths)
	return paths
}
