// Package textindex wraps the full-text indexing primitive behind a small
// interface so persistence, freshness and delta logic never depend on the
// concrete engine.
package textindex

import (
	"github.com/bjeber/docfind/internal/docs"
)

// Field names understood by the index.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldTags        = "tags"
	FieldBody        = "body"
)

// Match is one candidate document for a single term lookup, with the
// fields the term matched in.
type Match struct {
	ID     string
	Fields []string
}

// Index is the full-text indexing capability: add documents, look up a
// single term, fetch the denormalized record, and round-trip the whole
// index through opaque byte chunks.
type Index interface {
	// Add indexes one document, replacing any previous entry for its ID.
	Add(doc *docs.DocumentRecord) error

	// Search returns candidate documents for a single term with
	// per-field match provenance. An empty term yields no matches.
	Search(term string) ([]Match, error)

	// Get returns the denormalized record for a document ID.
	Get(id string) (*docs.DocumentRecord, bool)

	// Export serializes the index as one or more opaque chunks.
	// emit is called once per chunk with a unique key.
	Export(emit func(key string, data []byte) error) error

	// Count reports the number of indexed documents.
	Count() int

	// Close releases engine resources.
	Close() error
}
