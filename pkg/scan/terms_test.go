package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/notegrep/pkg/pattern"
)

func TestTermTracker(t *testing.T) {
	tests := []struct {
		name         string
		query        pattern.Query
		lines        []string
		wantActive   bool
		wantNotFound []string
	}{
		{
			name:         "single_term_inert",
			query:        pattern.Query{Raw: "abc"},
			lines:        []string{"nothing here"},
			wantActive:   false,
			wantNotFound: nil,
		},
		{
			name:         "one_of_two_terms_missing",
			query:        pattern.Query{Raw: "abc|def"},
			lines:        []string{"some abc text", "more text"},
			wantActive:   true,
			wantNotFound: []string{"def"},
		},
		{
			name:         "all_terms_found",
			query:        pattern.Query{Raw: "abc|def"},
			lines:        []string{"abc", "def"},
			wantActive:   true,
			wantNotFound: nil,
		},
		{
			name:         "case_insensitive_terms",
			query:        pattern.Query{Raw: "ABC|DEF", IgnoreCase: true},
			lines:        []string{"has abc only"},
			wantActive:   true,
			wantNotFound: []string{"DEF"},
		},
		{
			name:         "regex_terms",
			query:        pattern.Query{Raw: "a+b|c+d", Regex: true},
			lines:        []string{"xx aab yy"},
			wantActive:   true,
			wantNotFound: []string{"c+d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTermTracker(tt.query)
			assert.Equal(t, tt.wantActive, tracker.Active())

			for _, line := range tt.lines {
				tracker.Observe(line)
			}
			assert.Equal(t, tt.wantNotFound, tracker.NotFound())
		})
	}
}

// The panel's literal pipe behavior is intentionally asymmetric: the
// primary matcher treats "abc|def" as one literal string, while the term
// tally still reports which side occurs anywhere in the corpus.
func TestLiteralPipe_ScanVersusTermReporting(t *testing.T) {
	scanner := NewScanner(mustCompile(t, pattern.Query{Raw: "abc|def"}))

	matches, _ := scanner.ScanDocument("n.md", "only abc is present here", 100)
	assert.Empty(t, matches)
	assert.Equal(t, []string{"def"}, scanner.Terms().NotFound())
}
