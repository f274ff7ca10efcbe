// Package grep scans document bodies line by line with a regular
// expression, reporting one deduplicated context window per paragraph
// and a heading breadcrumb for each match.
package grep

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bjeber/docfind/internal/docs"
	"github.com/bjeber/docfind/internal/snippet"
)

// Options control window derivation.
type Options struct {
	// Raw switches from paragraph-aware windows to a fixed symmetric
	// line radius around the match.
	Raw bool

	// Radius is the raw-mode context radius in lines.
	Radius int

	// Limits bound paragraph-mode windows.
	Limits snippet.Limits
}

// DefaultOptions returns paragraph-mode options with standard limits.
func DefaultOptions() Options {
	return Options{
		Radius: 2,
		Limits: snippet.DefaultLimits(),
	}
}

// Match is one reported hit with its context window.
type Match struct {
	Doc        *docs.DocumentRecord
	Line       int // zero-based match line within the body
	LineText   string
	Snippet    snippet.Snippet
	Breadcrumb string // deepest heading chain above the match, "A > B > C"
}

// Search runs the pattern over every document body. Windows within one
// document are closed line intervals; a match whose window overlaps an
// already-accepted interval is skipped, so a paragraph with several hits
// is reported once.
func Search(documents []*docs.DocumentRecord, pattern string, opts Options) ([]Match, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	var matches []Match
	for _, doc := range documents {
		matches = append(matches, searchDocument(doc, re, opts)...)
	}
	return matches, nil
}

func searchDocument(doc *docs.DocumentRecord, re *regexp.Regexp, opts Options) []Match {
	lines := strings.Split(doc.Body, "\n")

	var accepted [][2]int
	var matches []Match

	for i, line := range lines {
		if !re.MatchString(line) {
			continue
		}

		var win snippet.Snippet
		if opts.Raw {
			win = rawWindow(lines, i, opts.Radius)
		} else {
			win = snippet.AtLine(lines, i, opts.Limits)
		}

		if overlapsAny(accepted, win.StartLine, win.EndLine) {
			continue
		}
		accepted = append(accepted, [2]int{win.StartLine, win.EndLine})

		matches = append(matches, Match{
			Doc:        doc,
			Line:       i,
			LineText:   line,
			Snippet:    win,
			Breadcrumb: Breadcrumb(lines, i),
		})
	}

	return matches
}

// rawWindow is the fixed symmetric radius used in raw mode.
func rawWindow(lines []string, line, radius int) snippet.Snippet {
	if radius < 0 {
		radius = 0
	}
	start := line - radius
	if start < 0 {
		start = 0
	}
	end := line + radius
	if end > len(lines)-1 {
		end = len(lines) - 1
	}

	return snippet.Snippet{
		Text:      strings.Join(lines[start:end+1], "\n"),
		StartLine: start,
		EndLine:   end,
	}
}

// overlapsAny checks a closed interval against the accepted set.
func overlapsAny(accepted [][2]int, start, end int) bool {
	for _, iv := range accepted {
		if start <= iv[1] && end >= iv[0] {
			return true
		}
	}
	return false
}

// Breadcrumb walks backward from the match line over the headings above
// it, keeping the deepest chain of strictly decreasing levels. A match
// under "# A / ## B / ### C" renders as "A > B > C".
func Breadcrumb(lines []string, line int) string {
	var chain []string
	lastLevel := 0 // 0 means no heading accepted yet

	for i := line - 1; i >= 0; i-- {
		level := snippet.HeadingLevel(lines[i])
		if level == 0 {
			continue
		}
		if lastLevel != 0 && level >= lastLevel {
			continue
		}

		text := strings.TrimSpace(strings.TrimLeft(lines[i], "#"))
		chain = append([]string{text}, chain...)
		lastLevel = level

		if level == 1 {
			break
		}
	}

	return strings.Join(chain, " > ")
}
