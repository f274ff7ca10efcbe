package docs

// DocumentRecord is the parsed, canonical form of one markdown file.
// Records are replaced wholesale when their fingerprint changes and
// dropped when the file disappears.
type DocumentRecord struct {
	// Path is the absolute path and the document's identity.
	Path string `json:"path"`

	// RelPath is the path relative to the search root, used for display.
	RelPath string `json:"rel_path"`

	// Title comes from frontmatter, else the first H1, else the file stem.
	Title string `json:"title"`

	// Body is the document text with frontmatter stripped.
	Body string `json:"body"`

	// Description and Tags come from frontmatter when present.
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Meta keeps the scalar frontmatter fields not promoted to a field above.
	Meta map[string]string `json:"meta,omitempty"`

	// Hash is the fingerprint of the file at parse time.
	Hash string `json:"hash"`
}

// FileEntry is one discovered file, as produced by Discovery.
type FileEntry struct {
	Path    string // absolute
	RelPath string // relative to the search root, slash-separated
}
