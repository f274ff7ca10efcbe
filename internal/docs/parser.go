package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the raw parsed YAML header of a document.
type Frontmatter map[string]interface{}

// ParseBytes splits raw file bytes into frontmatter and body.
// A document without a frontmatter block yields an empty Frontmatter
// and the full text as body. Malformed YAML is treated as body text
// rather than an error so one bad header never hides a document.
func ParseBytes(raw []byte) (Frontmatter, string) {
	text := string(raw)

	if !strings.HasPrefix(text, "---\n") && text != "---" {
		return Frontmatter{}, text
	}

	rest := strings.TrimPrefix(text, "---\n")
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return Frontmatter{}, text
	}

	header := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil || fm == nil {
		return Frontmatter{}, text
	}

	return fm, body
}

// ParseFile reads and parses one file into a DocumentRecord.
// The fingerprint hash is filled in by the caller.
func ParseFile(path, relPath string) (*DocumentRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", relPath, err)
	}

	fm, body := ParseBytes(raw)

	rec := &DocumentRecord{
		Path:    path,
		RelPath: relPath,
		Body:    body,
		Meta:    map[string]string{},
	}

	for key, val := range fm {
		switch key {
		case "title":
			rec.Title = stringValue(val)
		case "description":
			rec.Description = stringValue(val)
		case "tags":
			rec.Tags = stringSlice(val)
		default:
			if s := stringValue(val); s != "" {
				rec.Meta[key] = s
			}
		}
	}

	if rec.Title == "" {
		rec.Title = deriveTitle(body, relPath)
	}

	return rec, nil
}

// deriveTitle falls back to the first H1 heading, then the file stem.
func deriveTitle(body, relPath string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	base := filepath.Base(relPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func stringValue(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case int, int64, float64, bool:
		return fmt.Sprintf("%v", s)
	default:
		return ""
	}
}

// stringSlice accepts both YAML list and comma-separated scalar forms.
func stringSlice(v interface{}) []string {
	switch vals := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(vals, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	default:
		return nil
	}
}
