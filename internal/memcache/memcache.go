// Package memcache holds the process-scoped short-TTL caches over the
// parsed document set and the live index handle. The caches live on an
// explicit Session handle passed into the search entry points; there is
// no package-level singleton.
package memcache

import (
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/maypok86/otter"

	"github.com/bjeber/docfind/internal/docs"
	"github.com/bjeber/docfind/internal/textindex"
)

// DefaultTTL is the trust window for both caches.
const DefaultTTL = 10 * time.Minute

// indexCacheCapacity bounds the keyed index cache. One entry per
// distinct file set is typical; a handful covers multi-root sessions.
const indexCacheCapacity = 16

// IndexEntry is a cached live index handle with the documents and the
// identity set it was built from.
type IndexEntry struct {
	Index     textindex.Index
	Documents []*docs.DocumentRecord
	identity  string
}

// docEntry is the single-slot document cache. Within the TTL it is
// trusted on a file-count check alone: fingerprints are not re-verified,
// trading a bounded staleness window for zero stat calls on hot paths.
type docEntry struct {
	documents []*docs.DocumentRecord
	count     int
	created   time.Time
}

// Session owns both caches for one logical thread of control.
type Session struct {
	ttl     time.Duration
	indexes otter.Cache[string, *IndexEntry]
	docSlot *docEntry
	now     func() time.Time
}

// NewSession creates a cache session. A non-positive ttl uses DefaultTTL.
func NewSession(ttl time.Duration) (*Session, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	indexes, err := otter.MustBuilder[string, *IndexEntry](indexCacheCapacity).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build index cache: %w", err)
	}

	return &Session{
		ttl:     ttl,
		indexes: indexes,
		now:     time.Now,
	}, nil
}

// IdentityKey derives the cache key for a file set: an xxhash digest of
// the newline-joined identity list. Callers pass the paths pre-sorted so
// equal sets yield equal keys.
func IdentityKey(sortedPaths []string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(sortedPaths, "\n")))
}

// GetIndex returns the cached index entry for an identity set, requiring
// both TTL validity (enforced by the cache) and an exact identity match.
func (s *Session) GetIndex(sortedPaths []string) (*IndexEntry, bool) {
	identity := strings.Join(sortedPaths, "\n")

	entry, ok := s.indexes.Get(IdentityKey(sortedPaths))
	if !ok || entry.identity != identity {
		return nil, false
	}
	return entry, true
}

// PutIndex caches a live index handle for an identity set.
func (s *Session) PutIndex(sortedPaths []string, index textindex.Index, documents []*docs.DocumentRecord) {
	s.indexes.Set(IdentityKey(sortedPaths), &IndexEntry{
		Index:     index,
		Documents: documents,
		identity:  strings.Join(sortedPaths, "\n"),
	})
}

// GetDocuments returns the cached document list when the slot is within
// its TTL and the file count matches.
func (s *Session) GetDocuments(fileCount int) ([]*docs.DocumentRecord, bool) {
	slot := s.docSlot
	if slot == nil {
		return nil, false
	}
	if s.now().Sub(slot.created) >= s.ttl {
		return nil, false
	}
	if slot.count != fileCount {
		return nil, false
	}
	return slot.documents, true
}

// PutDocuments replaces the document slot.
func (s *Session) PutDocuments(documents []*docs.DocumentRecord) {
	s.docSlot = &docEntry{
		documents: documents,
		count:     len(documents),
		created:   s.now(),
	}
}

// Clear empties both caches. Used by explicit rebuilds and tests.
func (s *Session) Clear() {
	s.indexes.Clear()
	s.docSlot = nil
}

// Stats reports cache occupancy for the management surface.
type Stats struct {
	IndexEntries int
	DocsCached   int
	DocSlotAge   time.Duration
	TTL          time.Duration
}

// Stats returns a snapshot of the session's cache state.
func (s *Session) Stats() Stats {
	stats := Stats{
		IndexEntries: s.indexes.Size(),
		TTL:          s.ttl,
	}
	if s.docSlot != nil {
		stats.DocsCached = s.docSlot.count
		stats.DocSlotAge = s.now().Sub(s.docSlot.created)
	}
	return stats
}

// SetClock overrides the session clock for the document slot. Test hook.
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}
