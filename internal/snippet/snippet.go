// Package snippet derives bounded, boundary-aware preview windows around
// a match position in a document body. The same window policy serves
// both the fuzzy search results and the grep engine.
package snippet

import (
	"strings"
)

// Limits bound the extracted window.
type Limits struct {
	// MinChars and MinLines trigger forward extension for terse matches
	// such as a bare heading line.
	MinChars int
	MinLines int

	// MaxLines caps the window; larger snippets are re-centered around
	// the match and marked with ellipses on the cut side(s).
	MaxLines int
}

// DefaultLimits returns the standard window bounds.
func DefaultLimits() Limits {
	return Limits{
		MinChars: 120,
		MinLines: 3,
		MaxLines: 12,
	}
}

// Snippet is an extracted preview with its closed line interval in the
// source body. Lines are zero-based.
type Snippet struct {
	Text      string
	StartLine int
	EndLine   int
}

const ellipsis = "..."

// Extract returns the preview window around a character offset.
func Extract(body string, offset int, lim Limits) Snippet {
	lines := strings.Split(body, "\n")
	return AtLine(lines, LineOfOffset(body, offset), lim)
}

// LineOfOffset converts a character offset to a zero-based line index.
func LineOfOffset(body string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(body) {
		offset = len(body)
	}
	return strings.Count(body[:offset], "\n")
}

// AtLine returns the preview window around a line index.
//
// Policy: a match inside a fenced code block yields the whole block (or
// match-to-end for an unterminated fence). Otherwise the window grows
// from the match line to the surrounding paragraph boundaries, extends
// forward when the result is too terse, and is re-centered with roughly
// one third of the budget above the match when it exceeds MaxLines.
func AtLine(lines []string, line int, lim Limits) Snippet {
	if len(lines) == 0 {
		return Snippet{}
	}
	if line < 0 {
		line = 0
	}
	if line >= len(lines) {
		line = len(lines) - 1
	}

	start, end, inFence := fenceSpan(lines, line)
	if !inFence {
		start, end = paragraphSpan(lines, line)
		start, end = extendIfTerse(lines, start, end, lim)
	}

	return clampWindow(lines, line, start, end, lim)
}

// fenceSpan reports whether line falls inside a fenced code block,
// scanning fence delimiters from the top, and returns the block's span.
// An unterminated block runs to the end of the body.
func fenceSpan(lines []string, line int) (start, end int, inFence bool) {
	open := -1
	for i := 0; i <= line; i++ {
		if isFence(lines[i]) {
			if open < 0 {
				open = i
			} else {
				open = -1
			}
		}
	}

	if open < 0 {
		return 0, 0, false
	}

	for i := line + 1; i < len(lines); i++ {
		if isFence(lines[i]) {
			return open, i, true
		}
	}
	return open, len(lines) - 1, true
}

// paragraphSpan expands from the match line until a blank line or a
// heading bounds it in each direction.
func paragraphSpan(lines []string, line int) (start, end int) {
	start = line
	for start > 0 {
		prev := lines[start-1]
		if isBlank(prev) || isHeading(prev) {
			break
		}
		start--
	}

	end = line
	for end < len(lines)-1 {
		next := lines[end+1]
		if isBlank(next) || isHeading(next) {
			break
		}
		end++
	}

	return start, end
}

// extendIfTerse pushes the window forward through the next paragraph
// when the snippet is below the minimum size, stopping at the next
// heading or fence.
func extendIfTerse(lines []string, start, end int, lim Limits) (int, int) {
	size := 0
	for i := start; i <= end; i++ {
		size += len(lines[i])
	}
	if end-start+1 >= lim.MinLines && size >= lim.MinChars {
		return start, end
	}

	i := end + 1
	for i < len(lines) && isBlank(lines[i]) {
		i++
	}
	for i < len(lines) {
		if isHeading(lines[i]) || isFence(lines[i]) || isBlank(lines[i]) {
			break
		}
		end = i
		i++
	}

	return start, end
}

// clampWindow enforces MaxLines by keeping a window placed slightly
// after the match (about a third of the budget above it) and renders
// the final text with ellipsis markers on the trimmed side(s).
func clampWindow(lines []string, line, start, end int, lim Limits) Snippet {
	cutTop, cutBottom := false, false

	if lim.MaxLines > 0 && end-start+1 > lim.MaxLines {
		before := lim.MaxLines / 3
		newStart := line - before
		if newStart < start {
			newStart = start
		}
		newEnd := newStart + lim.MaxLines - 1
		if newEnd > end {
			newEnd = end
			newStart = newEnd - lim.MaxLines + 1
		}
		cutTop = newStart > start
		cutBottom = newEnd < end
		start, end = newStart, newEnd
	}

	var b strings.Builder
	if cutTop {
		b.WriteString(ellipsis + "\n")
	}
	for i := start; i <= end; i++ {
		b.WriteString(lines[i])
		if i < end {
			b.WriteByte('\n')
		}
	}
	if cutBottom {
		b.WriteString("\n" + ellipsis)
	}

	return Snippet{
		Text:      b.String(),
		StartLine: start,
		EndLine:   end,
	}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isHeading(line string) bool {
	trimmed := strings.TrimLeft(line, "#")
	return strings.HasPrefix(line, "#") && strings.HasPrefix(trimmed, " ")
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}

// HeadingLevel returns the level of a heading line, or 0 for non-headings.
func HeadingLevel(line string) int {
	if !isHeading(line) {
		return 0
	}
	return len(line) - len(strings.TrimLeft(line, "#"))
}
