package replace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/notegrep/pkg/pattern"
	"github.com/walteh/notegrep/pkg/scan"
	"github.com/walteh/notegrep/pkg/vault"
)

// scanVault runs a full scan pass so engine tests operate on real match
// offsets rather than hand-built ones.
func scanVault(t *testing.T, v vault.Vault, q pattern.Query) (*scan.CorpusResult, *pattern.Matcher) {
	t.Helper()
	ctx := context.Background()

	matcher := mustCompile(t, q)
	refs, err := v.List(ctx)
	require.NoError(t, err)

	result, err := scan.ScanCorpus(ctx, v, refs, matcher, scan.CorpusOptions{})
	require.NoError(t, err)
	return result, matcher
}

func TestEngine_Apply(t *testing.T) {
	tests := []struct {
		name      string
		docs      map[string]string
		query     pattern.Query
		template  string
		wantDocs  map[string]string
		wantTotal int
	}{
		{
			name:      "length_growing_replacements_on_one_line",
			docs:      map[string]string{"a.md": "foo bar foo"},
			query:     pattern.Query{Raw: "foo"},
			template:  "lengthy",
			wantDocs:  map[string]string{"a.md": "lengthy bar lengthy"},
			wantTotal: 2,
		},
		{
			name:      "length_shrinking_replacements",
			docs:      map[string]string{"a.md": "lengthy bar lengthy"},
			query:     pattern.Query{Raw: "lengthy"},
			template:  "z",
			wantDocs:  map[string]string{"a.md": "z bar z"},
			wantTotal: 2,
		},
		{
			name: "multiple_documents",
			docs: map[string]string{
				"a.md": "foo\nfoo",
				"b.md": "no hits",
				"c.md": "end foo",
			},
			query:    pattern.Query{Raw: "foo"},
			template: "bar",
			wantDocs: map[string]string{
				"a.md": "bar\nbar",
				"b.md": "no hits",
				"c.md": "end bar",
			},
			wantTotal: 3,
		},
		{
			name:      "regex_backreferences",
			docs:      map[string]string{"a.md": "fo foo fooo"},
			query:     pattern.Query{Raw: "f(o+)", Regex: true},
			template:  "X$1",
			wantDocs:  map[string]string{"a.md": "Xo Xoo Xooo"},
			wantTotal: 3,
		},
		{
			name:      "identical_replacement_writes_nothing",
			docs:      map[string]string{"a.md": "foo bar"},
			query:     pattern.Query{Raw: "foo"},
			template:  "foo",
			wantDocs:  map[string]string{"a.md": "foo bar"},
			wantTotal: 0,
		},
		{
			name:      "trailing_newline_preserved",
			docs:      map[string]string{"a.md": "foo\n"},
			query:     pattern.Query{Raw: "foo"},
			template:  "bar",
			wantDocs:  map[string]string{"a.md": "bar\n"},
			wantTotal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			v := vault.NewMemVault(tt.docs)
			result, matcher := scanVault(t, v, tt.query)

			engine := NewEngine(v)
			changes, total, err := engine.Apply(ctx, result.Index.Approved(), tt.template, matcher)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			for path, want := range tt.wantDocs {
				got, err := v.Read(ctx, vault.DocumentRef{Path: path})
				require.NoError(t, err)
				assert.Equal(t, want, got, "content of %s", path)
			}

			for _, c := range changes {
				assert.Equal(t, tt.docs[c.Path], c.Before)
				assert.Equal(t, tt.wantDocs[c.Path], c.After)
				assert.NotEqual(t, c.Before, c.After)
			}
		})
	}
}

func TestEngine_Apply_SelectiveExclusion(t *testing.T) {
	ctx := context.Background()
	v := vault.NewMemVault(map[string]string{"a.md": "foo one foo two foo"})
	result, matcher := scanVault(t, v, pattern.Query{Raw: "foo"})

	all := result.Index.All()
	require.Len(t, all, 3)
	result.Index.SetIncluded(all[1].ID, false)

	engine := NewEngine(v)
	changes, total, err := engine.Apply(ctx, result.Index.Approved(), "X", matcher)
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, changes, 1)

	got, err := v.Read(ctx, vault.DocumentRef{Path: "a.md"})
	require.NoError(t, err)
	assert.Equal(t, "X one foo two X", got)
}

func TestEngine_Apply_WriteFailureIsolated(t *testing.T) {
	ctx := context.Background()
	v := vault.NewMemVault(map[string]string{
		"a.md": "foo",
		"b.md": "foo",
	})
	v.FailWrites["a.md"] = true

	result, matcher := scanVault(t, v, pattern.Query{Raw: "foo"})

	engine := NewEngine(v)
	changes, total, err := engine.Apply(ctx, result.Index.Approved(), "bar", matcher)
	require.NoError(t, err)

	// a.md failed: no change record, excluded from the count, but b.md
	// still went through.
	assert.Equal(t, 1, total)
	require.Len(t, changes, 1)
	assert.Equal(t, "b.md", changes[0].Path)

	got, err := v.Read(ctx, vault.DocumentRef{Path: "b.md"})
	require.NoError(t, err)
	assert.Equal(t, "bar", got)
}

func TestEngine_Apply_ReadFailureIsolated(t *testing.T) {
	ctx := context.Background()
	v := vault.NewMemVault(map[string]string{
		"a.md": "foo",
		"b.md": "foo",
	})

	result, matcher := scanVault(t, v, pattern.Query{Raw: "foo"})

	// Fail the fresh read at apply time, after the scan succeeded.
	v.FailReads["a.md"] = true

	engine := NewEngine(v)
	changes, total, err := engine.Apply(ctx, result.Index.Approved(), "bar", matcher)
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, changes, 1)
	assert.Equal(t, "b.md", changes[0].Path)
}

func TestEngine_Apply_StaleOffsetsSkipped(t *testing.T) {
	ctx := context.Background()
	v := vault.NewMemVault(map[string]string{"a.md": "foo bar foo"})
	result, matcher := scanVault(t, v, pattern.Query{Raw: "foo"})

	// The document shrinks between scan and apply; recorded offsets past
	// the new length must be skipped, not spliced blindly.
	require.NoError(t, v.Write(ctx, vault.DocumentRef{Path: "a.md"}, "foo"))

	engine := NewEngine(v)
	_, total, err := engine.Apply(ctx, result.Index.Approved(), "X", matcher)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	got, err := v.Read(ctx, vault.DocumentRef{Path: "a.md"})
	require.NoError(t, err)
	assert.Equal(t, "X", got)
}

// Back-to-front application is the load-bearing ordering rule: applying
// the same matches top-down with length-changing replacements would
// corrupt later offsets. rewriteDocument receives matches in canonical
// ascending order here and must still produce the correct result.
func TestRewriteDocument_OrderIndependence(t *testing.T) {
	v := vault.NewMemVault(map[string]string{"a.md": "aa aa aa\naa"})
	result, matcher := scanVault(t, v, pattern.Query{Raw: "aa"})

	approved := result.Index.Approved()
	require.Len(t, approved, 4)

	after, applied := rewriteDocument("aa aa aa\naa", approved, "wide", matcher)
	assert.Equal(t, 4, applied)
	assert.Equal(t, "wide wide wide\nwide", after)
}
