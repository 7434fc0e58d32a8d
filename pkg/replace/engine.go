package replace

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/notegrep/pkg/pattern"
	"github.com/walteh/notegrep/pkg/scan"
	"github.com/walteh/notegrep/pkg/vault"
)

// Change records one document actually modified by a batch pass.
type Change struct {
	Path   string `json:"path"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Engine applies approved matches to their owning documents.
type Engine struct {
	vault vault.Vault
}

// NewEngine creates a batch replace engine over a vault.
func NewEngine(v vault.Vault) *Engine {
	return &Engine{vault: v}
}

// Apply rewrites every document with approved matches, one document at a
// time. Per-document read and write failures are logged, skipped, and
// never abort the rest of the batch; a document whose rewritten content is
// identical to the original is not written and produces no change record.
//
// Returns the changes actually written and the total number of
// replacements they contain. The only error returned is context
// cancellation, checked between documents.
func (e *Engine) Apply(ctx context.Context, approved []scan.Match, template string, matcher *pattern.Matcher) ([]Change, int, error) {
	logger := zerolog.Ctx(ctx)

	groups, order := groupByPath(approved)

	var changes []Change
	total := 0
	for _, path := range order {
		if err := ctx.Err(); err != nil {
			return changes, total, errors.Errorf("replace cancelled: %w", err)
		}

		ref := vault.DocumentRef{Path: path}

		// Content is re-read at apply time, not reused from scan time, so
		// a document edited since the scan stays internally consistent.
		before, err := e.vault.Read(ctx, ref)
		if err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("skipping unreadable document during replace")
			continue
		}

		after, applied := rewriteDocument(before, groups[path], template, matcher)
		if applied == 0 || after == before {
			continue
		}

		if err := e.vault.Write(ctx, ref, after); err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("skipping unwritable document during replace")
			continue
		}

		changes = append(changes, Change{Path: path, Before: before, After: after})
		total += applied
	}

	return changes, total, nil
}

// rewriteDocument splices every match's replacement into content and
// returns the rewritten text plus the number of replacements applied.
//
// Matches are applied in descending (line, start) order, bottom of the
// document first and right to left within a line, so a length-changing
// replacement never invalidates the offsets of matches still to come.
// Matches whose recorded offsets no longer fit the current content are
// stale and skipped.
func rewriteDocument(content string, matches []scan.Match, template string, matcher *pattern.Matcher) (string, int) {
	lines := scan.SplitLines(content)

	sorted := make([]scan.Match, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line > sorted[j].Line
		}
		return sorted[i].Start > sorted[j].Start
	})

	applied := 0
	for _, m := range sorted {
		if m.Line < 0 || m.Line >= len(lines) {
			continue
		}
		line := lines[m.Line]
		if m.Start < 0 || m.End < m.Start || m.End > len(line) {
			continue
		}

		lines[m.Line] = line[:m.Start] + Preview(m, template, matcher) + line[m.End:]
		applied++
	}

	return scan.JoinLines(lines), applied
}

// groupByPath buckets matches by owning document, keeping the canonical
// path order of the input.
func groupByPath(matches []scan.Match) (map[string][]scan.Match, []string) {
	groups := map[string][]scan.Match{}
	var order []string
	for _, m := range matches {
		if _, ok := groups[m.Path]; !ok {
			order = append(order, m.Path)
		}
		groups[m.Path] = append(groups[m.Path], m)
	}
	return groups, order
}
