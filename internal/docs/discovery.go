package docs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery walks a directory tree and yields the markdown files to index,
// honoring include and ignore glob patterns.
type Discovery struct {
	rootDir        string
	docPatterns    []compiledPattern
	ignorePatterns []compiledPattern
}

// NewDiscovery compiles the glob patterns for a search root.
func NewDiscovery(rootDir string, docPatterns, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{rootDir: rootDir}

	for _, pattern := range docPatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.docPatterns = append(d.docPatterns, compiledPattern{pattern: pattern, glob: g})
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return d, nil
}

// Discover walks the tree and returns matching files sorted by walk order.
// Unreadable subtrees are skipped rather than failing the walk.
func (d *Discovery) Discover() ([]FileEntry, error) {
	entries := []FileEntry{}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.shouldIgnore(relPath) {
			return nil
		}

		if d.matchesAnyPattern(relPath, d.docPatterns) {
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			entries = append(entries, FileEntry{Path: abs, RelPath: relPath})
		}

		return nil
	})

	return entries, err
}

// shouldIgnore checks a path against the ignore patterns, including the
// directory form ("node_modules" matching "node_modules/**").
func (d *Discovery) shouldIgnore(relPath string) bool {
	if d.matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}
	return d.matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
// Root-level files also match "**/"-prefixed patterns with the prefix
// stripped, so "**/*.md" covers "README.md" as users expect.
func (d *Discovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
					return true
				}
			}
		}
	}

	return false
}
