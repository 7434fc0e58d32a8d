// Package pattern turns raw find queries into executable matchers.
package pattern

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidPattern is returned when a regex query does not compile.
	ErrInvalidPattern = errors.Base("invalid pattern")

	// ErrDegeneratePattern is returned when a regex query can match the
	// empty string. Zero-width matches would make a scan loop forever, so
	// they are rejected before any scanning starts.
	ErrDegeneratePattern = errors.Base("pattern matches the empty string")

	// ErrEmptyQuery is returned for empty or whitespace-only queries.
	ErrEmptyQuery = errors.Base("empty query")
)

// Query describes one find request. Values are immutable once built.
type Query struct {
	Raw        string `json:"raw"`
	Regex      bool   `json:"regex"`
	IgnoreCase bool   `json:"ignore_case"`
	// WholeWord only applies in regex mode; it is ignored for literal
	// queries rather than rejected.
	WholeWord bool `json:"whole_word"`
}

// Terms splits a literal multi-term query on pipe characters. A query
// without pipes has a single term. Used only for found/not-found
// reporting, never for primary matching.
func (q Query) Terms() []string {
	if !strings.Contains(q.Raw, "|") {
		return []string{q.Raw}
	}
	parts := strings.Split(q.Raw, "|")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}

// Matcher is a compiled query, ready to run against line text.
type Matcher struct {
	query   Query
	re      *regexp.Regexp // nil in literal mode
	literal string         // needle, verbatim
	fold    *regexp.Regexp // case-insensitive literal path, nil otherwise
}

// Query returns the query this matcher was compiled from.
func (m *Matcher) Query() Query { return m.query }

// IsRegex reports whether the matcher runs the regex path.
func (m *Matcher) IsRegex() bool { return m.re != nil }

// Regexp returns the compiled expression, or nil in literal mode.
func (m *Matcher) Regexp() *regexp.Regexp { return m.re }

// Compile validates and compiles a query.
//
// Regex queries are compiled with multiline semantics and, when WholeWord
// is set, wrapped as \b(?:pattern)\b. Case-insensitive literal queries run
// a quoted (?i) expression so match offsets and widths are positions in
// the original text; lowercasing the haystack would shift byte offsets for
// runes whose case pair has a different encoded length.
func Compile(query Query) (*Matcher, error) {
	if strings.TrimSpace(query.Raw) == "" {
		return nil, errors.WithStack(ErrEmptyQuery)
	}

	if !query.Regex {
		m := &Matcher{query: query, literal: query.Raw}
		if query.IgnoreCase {
			// QuoteMeta output always compiles.
			m.fold = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query.Raw))
		}
		return m, nil
	}

	expr := query.Raw
	if query.WholeWord {
		expr = `\b(?:` + expr + `)\b`
	}
	flags := "(?m)"
	if query.IgnoreCase {
		flags = "(?mi)"
	}

	re, err := regexp.Compile(flags + expr)
	if err != nil {
		return nil, errors.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	if re.MatchString("") {
		return nil, errors.Errorf("%w: %q", ErrDegeneratePattern, query.Raw)
	}

	return &Matcher{query: query, re: re}, nil
}

// FindAllInLine returns every non-overlapping match in line, left to
// right, each as a half-open [start, end) byte-offset pair. The whole
// line is evaluated in one pass so ^ and \b see their real context; a
// match search never resumes against a sliced-off prefix.
func (m *Matcher) FindAllInLine(line string) [][]int {
	if m.re != nil {
		locs := m.re.FindAllStringIndex(line, -1)
		// Degenerate patterns are rejected at compile time; drop any
		// zero-width hit rather than trust it.
		kept := locs[:0]
		for _, loc := range locs {
			if loc[1] > loc[0] {
				kept = append(kept, loc)
			}
		}
		return kept
	}

	if m.fold != nil {
		return m.fold.FindAllStringIndex(line, -1)
	}

	var locs [][]int
	from := 0
	for {
		idx := strings.Index(line[from:], m.literal)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(m.literal)
		locs = append(locs, []int{start, end})
		from = end
	}
	return locs
}

// FindInLine returns the first match starting at or after the from
// offset, as a half-open [start, end) pair, or (-1, -1) when there is
// none. Anchors and word boundaries are evaluated against the full line,
// not the tail from from onward.
func (m *Matcher) FindInLine(line string, from int) (int, int) {
	if from > len(line) {
		return -1, -1
	}
	for _, loc := range m.FindAllInLine(line) {
		if loc[0] >= from {
			return loc[0], loc[1]
		}
	}
	return -1, -1
}

// MatchesAnywhere reports whether the matcher hits anywhere in text.
func (m *Matcher) MatchesAnywhere(text string) bool {
	if m.re != nil {
		return m.re.MatchString(text)
	}
	if m.fold != nil {
		return m.fold.MatchString(text)
	}
	return strings.Contains(text, m.literal)
}
