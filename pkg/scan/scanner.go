package scan

import (
	"github.com/walteh/notegrep/pkg/pattern"
)

// Scanner applies a compiled matcher to documents, one at a time, under a
// shared match budget. It never mutates document content.
type Scanner struct {
	matcher *pattern.Matcher
	terms   *TermTracker
}

// NewScanner creates a scanner for one compiled matcher. The term tracker
// is active only for pipe-delimited multi-term queries.
func NewScanner(matcher *pattern.Matcher) *Scanner {
	return &Scanner{
		matcher: matcher,
		terms:   NewTermTracker(matcher.Query()),
	}
}

// Terms returns the tracker recording which pipe-delimited terms were
// confirmed anywhere in the corpus.
func (s *Scanner) Terms() *TermTracker { return s.terms }

// ScanDocument finds every match in content, in increasing (line, start)
// order, stopping once budget matches have been produced. Matches on a
// line never overlap; the scan resumes at the previous match's end. The
// returned truncated flag reports whether the budget cut the document
// short.
func (s *Scanner) ScanDocument(path, content string, budget int) (matches []Match, truncated bool) {
	if budget <= 0 {
		return nil, true
	}

	lines := SplitLines(content)
	for lineNo, line := range lines {
		s.terms.Observe(line)

		// One evaluation per line keeps ^ and \b anchored to the real
		// line start; resuming a search against line[from:] would let
		// anchored patterns match again at every fabricated prefix.
		for _, loc := range s.matcher.FindAllInLine(line) {
			start, end := loc[0], loc[1]
			if end <= start {
				continue
			}

			snip, snipStart, snipEnd := snippet(line, start, end)
			matches = append(matches, Match{
				Path:         path,
				Line:         lineNo,
				Start:        start,
				End:          end,
				Text:         line[start:end],
				ID:           MatchID(path, lineNo, start),
				Included:     true,
				Snippet:      snip,
				SnippetStart: snipStart,
				SnippetEnd:   snipEnd,
			})
			if len(matches) >= budget {
				return matches, true
			}
		}
	}
	return matches, false
}
