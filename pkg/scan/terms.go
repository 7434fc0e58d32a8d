package scan

import (
	"sort"

	"github.com/walteh/notegrep/pkg/pattern"
)

// TermTracker records which terms of a pipe-delimited query were confirmed
// anywhere in the corpus. Each term is compiled independently with the
// query's case-sensitivity rule and tested per line, separately from the
// primary matcher.
//
// In literal mode the primary matcher still treats the pipe as an ordinary
// character; only this tracker splits on it. That asymmetry mirrors the
// panel behavior users already rely on, so it stays.
type TermTracker struct {
	terms    []string
	matchers []*pattern.Matcher
	found    map[string]bool
}

// NewTermTracker builds a tracker for the query's pipe-delimited terms.
// Single-term queries produce an inert tracker. Terms that fail to compile
// on their own are dropped from tracking rather than failing the scan.
func NewTermTracker(query pattern.Query) *TermTracker {
	t := &TermTracker{found: map[string]bool{}}

	terms := query.Terms()
	if len(terms) < 2 {
		return t
	}

	for _, term := range terms {
		m, err := pattern.Compile(pattern.Query{
			Raw:        term,
			Regex:      query.Regex,
			IgnoreCase: query.IgnoreCase,
		})
		if err != nil {
			continue
		}
		t.terms = append(t.terms, term)
		t.matchers = append(t.matchers, m)
	}
	return t
}

// Active reports whether the tracker has terms to track.
func (t *TermTracker) Active() bool { return len(t.terms) > 0 }

// Observe tests every not-yet-found term against one line of text.
func (t *TermTracker) Observe(line string) {
	for i, term := range t.terms {
		if t.found[term] {
			continue
		}
		if t.matchers[i].MatchesAnywhere(line) {
			t.found[term] = true
		}
	}
}

// NotFound returns the terms never confirmed anywhere in the corpus, in
// stable sorted order.
func (t *TermTracker) NotFound() []string {
	var missing []string
	for _, term := range t.terms {
		if !t.found[term] {
			missing = append(missing, term)
		}
	}
	sort.Strings(missing)
	return missing
}
