package search

import (
	"log"

	"github.com/bjeber/docfind/internal/docs"
	"github.com/bjeber/docfind/internal/fingerprint"
	"github.com/bjeber/docfind/internal/reconcile"
	"github.com/bjeber/docfind/internal/store"
	"github.com/bjeber/docfind/internal/textindex"
)

// ProgressReporter receives build progress callbacks. The CLI reporter
// stays silent below its corpus-size threshold; the engine always calls.
type ProgressReporter interface {
	OnBuildStart(totalDocs int)
	OnDocumentIndexed(relPath string)
	OnBuildComplete(totalDocs int)
}

// noopProgress is the default reporter.
type noopProgress struct{}

func (noopProgress) OnBuildStart(int)         {}
func (noopProgress) OnDocumentIndexed(string) {}
func (noopProgress) OnBuildComplete(int)      {}

// ensureIndex returns a live index and document list for the file set,
// reusing the in-memory caches and the persisted store when fresh, and
// rebuilding otherwise.
func (e *Engine) ensureIndex(files []docs.FileEntry) (textindex.Index, []*docs.DocumentRecord, error) {
	if !e.indexing {
		// Indexing disabled: parse and build an ephemeral index every
		// call. Correctness over performance; nothing is persisted.
		documents := parseAll(files)
		idx, err := e.buildIndex(documents)
		if err != nil {
			return nil, nil, err
		}
		return idx, documents, nil
	}

	sortedPaths := identity(files)

	if entry, ok := e.session.GetIndex(sortedPaths); ok {
		return entry.Index, entry.Documents, nil
	}

	documents, err := e.loadDocuments(files)
	if err != nil {
		return nil, nil, err
	}

	if store.IsFresh(e.storeDir, files) {
		if idx, err := store.Import(e.storeDir); err == nil {
			e.session.PutIndex(sortedPaths, idx, documents)
			return idx, documents, nil
		}
		// Fresh metadata over unreadable chunks: fall through to rebuild.
	}

	idx, err := e.buildIndex(documents)
	if err != nil {
		return nil, nil, err
	}

	// A rebuild recomputes every fingerprint for the metadata, so the
	// next freshness check is exact even when reconciliation only
	// re-parsed a subset.
	meta := store.NewMetadata(files)
	if err := store.Export(idx, e.storeDir, meta); err != nil {
		// Unwritable store: search still works, just without caching.
		log.Printf("warning: index persistence skipped: %v", err)
	}

	e.session.PutIndex(sortedPaths, idx, documents)
	return idx, documents, nil
}

// loadDocuments consults the in-memory slot before reconciling against
// the persisted document cache.
func (e *Engine) loadDocuments(files []docs.FileEntry) ([]*docs.DocumentRecord, error) {
	if cached, ok := e.session.GetDocuments(len(files)); ok {
		return cached, nil
	}

	documents, _, err := reconcile.Reconcile(e.storeDir, files)
	if err != nil {
		return nil, err
	}

	e.session.PutDocuments(documents)
	return documents, nil
}

// buildIndex constructs a fresh index from the documents.
func (e *Engine) buildIndex(documents []*docs.DocumentRecord) (textindex.Index, error) {
	idx, err := textindex.New()
	if err != nil {
		return nil, err
	}

	e.progress.OnBuildStart(len(documents))
	for _, doc := range documents {
		if err := idx.Add(doc); err != nil {
			idx.Close()
			return nil, err
		}
		e.progress.OnDocumentIndexed(doc.RelPath)
	}
	e.progress.OnBuildComplete(len(documents))

	return idx, nil
}

// parseAll parses every file directly, skipping unreadable ones.
// Used only on the disabled-indexing path.
func parseAll(files []docs.FileEntry) []*docs.DocumentRecord {
	documents := make([]*docs.DocumentRecord, 0, len(files))
	for _, f := range files {
		hash := fingerprint.File(f.Path)
		if hash == fingerprint.Missing {
			continue
		}
		rec, err := docs.ParseFile(f.Path, f.RelPath)
		if err != nil {
			continue
		}
		rec.Hash = hash
		documents = append(documents, rec)
	}
	return documents
}
