package replace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/notegrep/pkg/pattern"
	"github.com/walteh/notegrep/pkg/scan"
)

func mustCompile(t *testing.T, q pattern.Query) *pattern.Matcher {
	t.Helper()
	m, err := pattern.Compile(q)
	require.NoError(t, err)
	return m
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name     string
		query    pattern.Query
		text     string
		template string
		want     string
	}{
		{
			name:     "literal_template_verbatim",
			query:    pattern.Query{Raw: "foo"},
			text:     "foo",
			template: "bar$1",
			want:     "bar$1",
		},
		{
			name:     "regex_backreference",
			query:    pattern.Query{Raw: "f(o+)", Regex: true},
			text:     "foo",
			template: "X$1",
			want:     "Xoo",
		},
		{
			name:     "regex_two_groups",
			query:    pattern.Query{Raw: "(a+)(b+)", Regex: true},
			text:     "aabbb",
			template: "$2-$1",
			want:     "bbb-aa",
		},
		{
			name:     "regex_no_groups_plain_template",
			query:    pattern.Query{Raw: "foo", Regex: true},
			text:     "foo",
			template: "bar",
			want:     "bar",
		},
		{
			name:     "regex_unknown_group_expands_empty",
			query:    pattern.Query{Raw: "f(o+)", Regex: true},
			text:     "foo",
			template: "X$9",
			want:     "X",
		},
		{
			name:     "regex_pattern_misses_own_text",
			query:    pattern.Query{Raw: "f(o+)", Regex: true},
			text:     "bar",
			template: "X$1",
			want:     "bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := mustCompile(t, tt.query)
			m := scan.Match{Path: "n.md", Text: tt.text}

			got := Preview(m, tt.template, matcher)
			assert.Equal(t, tt.want, got)

			// Idempotent and pure: a second call with unchanged inputs
			// yields the same output.
			assert.Equal(t, got, Preview(m, tt.template, matcher))
		})
	}
}
