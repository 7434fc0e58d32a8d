// Package scan finds pattern matches across a vault and holds them in an
// addressable, selectively approvable index.
package scan

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Match is one located occurrence of the query pattern.
type Match struct {
	// Path identifies the owning document.
	Path string `json:"path"`

	// Line is the zero-based line number within the document.
	Line int `json:"line"`

	// Start and End delimit the half-open [Start, End) byte range of the
	// match within the line's text.
	Start int `json:"start"`
	End   int `json:"end"`

	// Text is the matched text itself.
	Text string `json:"text"`

	// ID addresses this match across UI round-trips. Deterministic for a
	// given (path, line, start), unique within one scan pass.
	ID string `json:"id"`

	// Included marks the match as approved for replacement. Defaults to
	// true for every freshly scanned match.
	Included bool `json:"included"`

	// Snippet is the matched text with up to SnippetContext bytes of the
	// line on either side; [SnippetStart, SnippetEnd) locates the match
	// within it. Display-only.
	Snippet      string `json:"snippet"`
	SnippetStart int    `json:"snippet_start"`
	SnippetEnd   int    `json:"snippet_end"`
}

// SnippetContext is how much line text to keep on either side of a match
// for display.
const SnippetContext = 30

// snippet extracts the display window around [start, end) in line,
// widened outward to rune boundaries.
func snippet(line string, start, end int) (string, int, int) {
	from := start - SnippetContext
	if from < 0 {
		from = 0
	}
	for from > 0 && !utf8.RuneStart(line[from]) {
		from--
	}
	to := end + SnippetContext
	if to > len(line) {
		to = len(line)
	}
	for to < len(line) && !utf8.RuneStart(line[to]) {
		to++
	}
	return line[from:to], start - from, end - from
}

// MatchID derives the stable identifier for a match position.
func MatchID(path string, line, start int) string {
	return fmt.Sprintf("%s:%d:%d", path, line, start)
}

// SplitLines splits document content on line feeds. A trailing separator
// yields a trailing empty element; JoinLines restores the exact original
// content.
func SplitLines(content string) []string {
	return strings.Split(content, "\n")
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// less orders matches canonically: path, then line, then start offset.
func less(a, b Match) bool {
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Start < b.Start
}
