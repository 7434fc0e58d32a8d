// Package session owns one find/replace panel's state: the current match
// set, the undo history, the debounced search trigger, and the wiring
// between scanning, previewing, replacing, and reverting.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/notegrep/pkg/config"
	"github.com/walteh/notegrep/pkg/log"
	"github.com/walteh/notegrep/pkg/pattern"
	"github.com/walteh/notegrep/pkg/replace"
	"github.com/walteh/notegrep/pkg/scan"
	"github.com/walteh/notegrep/pkg/undo"
	"github.com/walteh/notegrep/pkg/vault"
)

// ErrStale is returned when a scan finished after a newer search had
// already started; its results were discarded, not committed.
var ErrStale = errors.Base("stale search superseded")

// ErrNoSearch is returned for operations that need a committed search.
var ErrNoSearch = errors.Base("no search has completed")

// Navigator moves the host's viewport to a match location and marks it
// briefly. Purely cosmetic, best effort.
type Navigator interface {
	NavigateTo(ref vault.DocumentRef, line, start, end int)
}

// Options configures a session.
type Options struct {
	Vault    vault.Vault
	Settings config.Settings

	// Notifier receives user-facing messages; defaults to a no-op.
	Notifier log.Notifier

	// Navigator is optional.
	Navigator Navigator

	// OnPage is forwarded to each corpus scan as its cooperative yield
	// point.
	OnPage func(idx *scan.Index)
}

// Session is one panel instance. Its match set and undo history are not
// shared across sessions. Create with New, release with Close.
type Session struct {
	vault     vault.Vault
	settings  config.Settings
	notifier  log.Notifier
	navigator Navigator
	onPage    func(idx *scan.Index)

	history  *undo.History
	debounce *Debouncer

	// generation is bumped on every search; a scan only commits its
	// results while its generation is still the latest.
	generation atomic.Int64

	mu      sync.Mutex
	matcher *pattern.Matcher
	result  *scan.CorpusResult
}

// New creates an empty session.
func New(opts Options) *Session {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = log.NopNotifier{}
	}
	return &Session{
		vault:     opts.Vault,
		settings:  opts.Settings,
		notifier:  notifier,
		navigator: opts.Navigator,
		onPage:    opts.OnPage,
		history:   undo.NewHistory(opts.Settings.UndoCapacity),
		debounce:  NewDebouncer(time.Duration(opts.Settings.DebounceMillis) * time.Millisecond),
	}
}

// History exposes the session's undo log.
func (s *Session) History() *undo.History { return s.history }

// Result returns the most recently committed search result, or nil.
func (s *Session) Result() *scan.CorpusResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// QueryChanged schedules a debounced search for q. Called on every
// keystroke; only the last call within the quiescence delay runs.
func (s *Session) QueryChanged(ctx context.Context, q pattern.Query) {
	s.debounce.Trigger(func() {
		if _, err := s.Search(ctx, q); err != nil && !errors.Is(err, ErrStale) {
			s.notifier.Notify(err.Error())
		}
	})
}

// SearchNow cancels any pending debounced search and runs q immediately.
func (s *Session) SearchNow(ctx context.Context, q pattern.Query) (*scan.CorpusResult, error) {
	var result *scan.CorpusResult
	var err error
	s.debounce.Flush(func() {
		result, err = s.Search(ctx, q)
	})
	return result, err
}

// Search runs one full scan pass and commits its results. The previous
// match set is discarded wholesale: match IDs from earlier passes go
// stale and later toggles on them are no-ops.
//
// Compile failures (invalid, degenerate, or empty patterns) block the
// scan before any document is read.
func (s *Session) Search(ctx context.Context, q pattern.Query) (*scan.CorpusResult, error) {
	gen := s.generation.Add(1)

	matcher, err := pattern.Compile(q)
	if err != nil {
		return nil, err
	}

	refs, err := s.corpus(ctx)
	if err != nil {
		return nil, err
	}

	result, err := scan.ScanCorpus(ctx, s.vault, refs, matcher, scan.CorpusOptions{
		MaxMatches: s.settings.MaxMatches,
		OnPage:     s.onPage,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation.Load() != gen {
		zerolog.Ctx(ctx).Debug().Int64("generation", gen).Msg("discarding stale search results")
		return nil, errors.WithStack(ErrStale)
	}
	s.matcher = matcher
	s.result = result

	if result.Index.Truncated() {
		s.notifier.Notify(fmt.Sprintf("results truncated at %d matches", result.Index.Len()))
	}
	for _, term := range result.NotFound {
		s.notifier.Notify(fmt.Sprintf("term not found: %s", term))
	}
	return result, nil
}

// corpus resolves the refs in scope: the active document alone, or the
// whole vault.
func (s *Session) corpus(ctx context.Context) ([]vault.DocumentRef, error) {
	if s.settings.Scope == string(undo.ScopeDocument) {
		active, ok := s.vault.(vault.ActiveProvider)
		if ok {
			if ref, found := active.Active(); found {
				return []vault.DocumentRef{ref}, nil
			}
		}
		return nil, errors.New("no active document to search")
	}

	refs, err := s.vault.List(ctx)
	if err != nil {
		return nil, errors.Errorf("listing documents: %w", err)
	}
	return refs, nil
}

// SetIncluded toggles a match's approval. Unknown ids, including ids from
// a discarded pass, are ignored.
func (s *Session) SetIncluded(id string, included bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		s.result.Index.SetIncluded(id, included)
	}
}

// Preview returns the replacement text one match would receive under the
// given template, without touching any document.
func (s *Session) Preview(id, template string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil || s.matcher == nil {
		return "", false
	}
	m, ok := s.result.Index.Get(id)
	if !ok {
		return "", false
	}
	return replace.Preview(m, template, s.matcher), true
}

// ReplaceApproved applies every approved match with the given template,
// records the batch in the undo history, and reports the aggregate
// outcome through the notifier. Returns the recorded entry, or nil when
// nothing changed.
func (s *Session) ReplaceApproved(ctx context.Context, template string) (*undo.Entry, error) {
	s.mu.Lock()
	matcher, result := s.matcher, s.result
	s.mu.Unlock()

	if result == nil || matcher == nil {
		return nil, errors.WithStack(ErrNoSearch)
	}

	approved := result.Index.Approved()
	if len(approved) == 0 {
		s.notifier.Notify("no approved matches to replace")
		return nil, nil
	}
	candidates := countDocuments(approved)

	engine := replace.NewEngine(s.vault)
	changes, total, err := engine.Apply(ctx, approved, template, matcher)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(fmt.Sprintf("replaced %d matches in %d of %d documents",
		total, len(changes), candidates))
	if len(changes) == 0 {
		return nil, nil
	}

	entry := undo.Entry{
		Time:         time.Now(),
		Scope:        undo.Scope(s.settings.Scope),
		Replacements: total,
		Query:        matcher.Query(),
		Template:     template,
	}
	for _, c := range changes {
		entry.Documents = append(entry.Documents, undo.DocumentState{
			Path:   c.Path,
			Before: c.Before,
			After:  c.After,
		})
	}
	s.history.Push(entry)

	return &entry, nil
}

// Undo reverts the most recent batch. Each call pops one distinct batch;
// there is no redo.
func (s *Session) Undo(ctx context.Context) error {
	entry, err := s.history.PopMostRecent()
	if errors.Is(err, undo.ErrEmpty) {
		s.notifier.Notify("nothing to undo")
		return err
	}
	if err != nil {
		return err
	}

	restored, failed := undo.Revert(ctx, entry, s.vault)
	if failed > 0 {
		s.notifier.Notify(fmt.Sprintf("restored %d documents, %d failed", restored, failed))
	} else {
		s.notifier.Notify(fmt.Sprintf("restored %d documents", restored))
	}
	return nil
}

// NavigateToMatch asks the host to show a match. Best effort: unknown ids
// and a missing navigator are ignored.
func (s *Session) NavigateToMatch(id string) {
	if s.navigator == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return
	}
	if m, ok := s.result.Index.Get(id); ok {
		s.navigator.NavigateTo(vault.DocumentRef{Path: m.Path}, m.Line, m.Start, m.End)
	}
}

// Close tears the session down: pending debounced searches are cancelled
// and the undo history is cleared.
func (s *Session) Close() {
	s.debounce.Cancel()
	s.generation.Add(1)
	s.history.Clear()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.matcher = nil
	s.result = nil
}

// countDocuments counts distinct paths among matches.
func countDocuments(matches []scan.Match) int {
	seen := map[string]bool{}
	for _, m := range matches {
		seen[m.Path] = true
	}
	return len(seen)
}
