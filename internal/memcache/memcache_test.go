package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjeber/docfind/internal/docs"
	"github.com/bjeber/docfind/internal/textindex"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(0)
	require.NoError(t, err)
	return s
}

func sampleDocs(n int) []*docs.DocumentRecord {
	out := make([]*docs.DocumentRecord, n)
	for i := range out {
		out[i] = &docs.DocumentRecord{Path: "/docs/" + string(rune('a'+i)) + ".md"}
	}
	return out
}

func TestIndexCache_HitRequiresExactIdentity(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	idx, err := textindex.New()
	require.NoError(t, err)
	defer idx.Close()

	paths := []string{"/docs/a.md", "/docs/b.md"}
	s.PutIndex(paths, idx, sampleDocs(2))

	entry, ok := s.GetIndex(paths)
	require.True(t, ok)
	assert.Same(t, idx, entry.Index)

	_, ok = s.GetIndex([]string{"/docs/a.md", "/docs/c.md"})
	assert.False(t, ok, "different identity set must miss")

	_, ok = s.GetIndex([]string{"/docs/a.md"})
	assert.False(t, ok, "subset must miss")
}

func TestDocumentCache_CountCheckOnly(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	s.PutDocuments(sampleDocs(3))

	cached, ok := s.GetDocuments(3)
	require.True(t, ok)
	assert.Len(t, cached, 3)

	// Within the TTL only the count is checked; this is the documented
	// staleness window, not an invariant to tighten.
	_, ok = s.GetDocuments(4)
	assert.False(t, ok, "count mismatch must miss")
}

func TestDocumentCache_TTLExpiry(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	s.PutDocuments(sampleDocs(2))

	now := time.Now()
	s.SetClock(func() time.Time { return now.Add(DefaultTTL + time.Second) })

	_, ok := s.GetDocuments(2)
	assert.False(t, ok, "slot past its TTL must miss")
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	idx, err := textindex.New()
	require.NoError(t, err)
	defer idx.Close()

	paths := []string{"/docs/a.md"}
	s.PutIndex(paths, idx, sampleDocs(1))
	s.PutDocuments(sampleDocs(1))

	s.Clear()

	_, ok := s.GetIndex(paths)
	assert.False(t, ok)
	_, ok = s.GetDocuments(1)
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	assert.Equal(t, 0, s.Stats().DocsCached)

	s.PutDocuments(sampleDocs(2))
	stats := s.Stats()
	assert.Equal(t, 2, stats.DocsCached)
	assert.Equal(t, DefaultTTL, stats.TTL)
}

func TestIdentityKey_OrderSensitiveInput(t *testing.T) {
	t.Parallel()

	// Callers pass sorted paths; equal sets yield equal keys.
	a := IdentityKey([]string{"/a.md", "/b.md"})
	b := IdentityKey([]string{"/a.md", "/b.md"})
	c := IdentityKey([]string{"/a.md", "/c.md"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
