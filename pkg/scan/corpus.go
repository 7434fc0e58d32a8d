package scan

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/notegrep/pkg/pattern"
	"github.com/walteh/notegrep/pkg/vault"
)

// CorpusOptions tunes one corpus scan pass.
type CorpusOptions struct {
	// MaxMatches caps the total match count; non-positive means
	// DefaultMaxMatches.
	MaxMatches int

	// OnPage, when set, is invoked after each document as a cooperative
	// yield point, with the index accumulated so far. The index must not
	// be mutated from the callback.
	OnPage func(idx *Index)
}

// CorpusResult is the outcome of one full scan pass.
type CorpusResult struct {
	// Index holds every match found, finalized into canonical order.
	Index *Index

	// NotFound lists pipe-delimited query terms never confirmed anywhere
	// in the scanned corpus.
	NotFound []string

	// DocsScanned counts documents actually read and scanned.
	DocsScanned int

	// ReadFailures counts documents skipped because their content could
	// not be read. Each skipped document contributes zero matches.
	ReadFailures int
}

// ScanCorpus runs one scan pass over refs in order. Per-document read
// failures are logged and skipped; the pass keeps going. The only error
// returned is context cancellation, checked at document boundaries.
func ScanCorpus(ctx context.Context, v vault.Vault, refs []vault.DocumentRef, matcher *pattern.Matcher, opts CorpusOptions) (*CorpusResult, error) {
	logger := zerolog.Ctx(ctx)
	scanner := NewScanner(matcher)
	idx := NewIndex(opts.MaxMatches)
	result := &CorpusResult{Index: idx}

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("scan cancelled: %w", err)
		}

		content, err := v.Read(ctx, ref)
		if err != nil {
			logger.Warn().Str("path", ref.Path).Err(err).Msg("skipping unreadable document")
			result.ReadFailures++
			continue
		}

		matches, truncated := scanner.ScanDocument(ref.Path, content, idx.Remaining())
		idx.Add(matches...)
		result.DocsScanned++

		if opts.OnPage != nil {
			opts.OnPage(idx)
		}
		if truncated {
			idx.MarkTruncated()
			break
		}
	}

	idx.Finalize()
	result.NotFound = scanner.Terms().NotFound()

	logger.Debug().
		Int("matches", idx.Len()).
		Int("documents", result.DocsScanned).
		Bool("truncated", idx.Truncated()).
		Msg("scan pass complete")

	return result, nil
}
