package textindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjeber/docfind/internal/docs"
)

func record(path, title, body string, tags ...string) *docs.DocumentRecord {
	return &docs.DocumentRecord{
		Path:    path,
		RelPath: path,
		Title:   title,
		Body:    body,
		Tags:    tags,
	}
}

func populated(t *testing.T) Index {
	t.Helper()
	idx, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	require.NoError(t, idx.Add(record("a.md", "Cache Design", "The cache evicts old entries.")))
	require.NoError(t, idx.Add(record("b.md", "User Guide", "Getting started with the tool.", "cache")))
	require.NoError(t, idx.Add(record("c.md", "Networking", "Sockets and routing.")))
	return idx
}

func matchIDs(matches []Match) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}

func TestIndex_SearchWithFieldProvenance(t *testing.T) {
	t.Parallel()

	idx := populated(t)

	matches, err := idx.Search("cache")
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"a.md", "b.md"}, matchIDs(matches))
	for _, m := range matches {
		switch m.ID {
		case "a.md":
			assert.Contains(t, m.Fields, FieldTitle)
			assert.Contains(t, m.Fields, FieldBody)
		case "b.md":
			assert.Equal(t, []string{FieldTags}, m.Fields)
		}
	}
}

func TestIndex_PrefixSearch(t *testing.T) {
	t.Parallel()

	idx := populated(t)

	matches, err := idx.Search("netw")
	require.NoError(t, err)
	assert.Equal(t, []string{"c.md"}, matchIDs(matches))
}

func TestIndex_MidWordPartialSearch(t *testing.T) {
	t.Parallel()

	idx := populated(t)

	// "ache" sits inside "cache"; neither match nor prefix queries reach
	// it, so the wildcard leg must.
	matches, err := idx.Search("ache")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.md", "b.md"}, matchIDs(matches))
}

func TestIndex_SearchMisses(t *testing.T) {
	t.Parallel()

	idx := populated(t)

	matches, err := idx.Search("zeppelin")
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = idx.Search("   ")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestIndex_Get(t *testing.T) {
	t.Parallel()

	idx := populated(t)

	rec, ok := idx.Get("a.md")
	require.True(t, ok)
	assert.Equal(t, "Cache Design", rec.Title)

	_, ok = idx.Get("missing.md")
	assert.False(t, ok)
}

func TestIndex_AddRejectsPathless(t *testing.T) {
	t.Parallel()

	idx, err := New()
	require.NoError(t, err)
	defer idx.Close()

	assert.Error(t, idx.Add(nil))
	assert.Error(t, idx.Add(&docs.DocumentRecord{Title: "no path"}))
}

func TestIndex_ExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	idx := populated(t)

	chunks := map[string][]byte{}
	require.NoError(t, idx.Export(func(key string, data []byte) error {
		chunks[key] = data
		return nil
	}))
	require.NotEmpty(t, chunks)

	imported, err := Import(chunks)
	require.NoError(t, err)
	defer imported.Close()

	assert.Equal(t, idx.Count(), imported.Count())

	rec, ok := imported.Get("b.md")
	require.True(t, ok)
	assert.Equal(t, "User Guide", rec.Title)

	matches, err := imported.Search("cache")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.md", "b.md"}, matchIDs(matches))
}

func TestImport_RejectsCorruptChunk(t *testing.T) {
	t.Parallel()

	_, err := Import(map[string][]byte{"bad": []byte("not json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode index chunk")
}
