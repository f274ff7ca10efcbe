package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestParseBytes_Frontmatter(t *testing.T) {
	t.Parallel()

	raw := `---
title: Getting Started
description: A short guide
tags:
  - guide
  - intro
owner: docs-team
---
# Welcome

Body text here.
`

	fm, body := ParseBytes([]byte(raw))
	assert.Equal(t, "Getting Started", fm["title"])
	assert.Equal(t, "A short guide", fm["description"])
	assert.Contains(t, body, "# Welcome")
	assert.NotContains(t, body, "title:")
}

func TestParseBytes_NoFrontmatter(t *testing.T) {
	t.Parallel()

	fm, body := ParseBytes([]byte("# Plain\n\ntext\n"))
	assert.Empty(t, fm)
	assert.Contains(t, body, "# Plain")
}

func TestParseBytes_MalformedYAML(t *testing.T) {
	t.Parallel()

	raw := "---\n: [not yaml\n---\nbody\n"
	fm, body := ParseBytes([]byte(raw))
	assert.Empty(t, fm)
	// Malformed header stays part of the body instead of vanishing.
	assert.Contains(t, body, "not yaml")
}

func TestParseFile_FieldExtraction(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	writeFile(t, path, `---
title: Test Document
description: Reference guide
tags: alpha, beta
version: 2
---
Content paragraph.
`)

	rec, err := ParseFile(path, "guide.md")
	require.NoError(t, err)

	assert.Equal(t, "Test Document", rec.Title)
	assert.Equal(t, "Reference guide", rec.Description)
	assert.Equal(t, []string{"alpha", "beta"}, rec.Tags)
	assert.Equal(t, "2", rec.Meta["version"])
	assert.Equal(t, "guide.md", rec.RelPath)
}

func TestParseFile_TitleFromHeading(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	writeFile(t, path, "# Derived Heading\n\ntext\n")

	rec, err := ParseFile(path, "notes.md")
	require.NoError(t, err)
	assert.Equal(t, "Derived Heading", rec.Title)
}

func TestParseFile_TitleFromFilename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "release-notes.md")
	writeFile(t, path, "no headings at all\n")

	rec, err := ParseFile(path, "release-notes.md")
	require.NoError(t, err)
	assert.Equal(t, "release-notes", rec.Title)
}

func TestParseFile_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.md"), "nope.md")
	assert.Error(t, err)
}
