// Package undo keeps a bounded, most-recent-first log of completed batch
// replace operations and can restore the documents each one touched.
package undo

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/notegrep/pkg/pattern"
	"github.com/walteh/notegrep/pkg/vault"
)

// ErrEmpty is returned when there is nothing to undo.
var ErrEmpty = errors.Base("nothing to undo")

// DefaultCapacity bounds the history when no capacity is configured.
const DefaultCapacity = 10

// Scope records whether a batch covered one document or the whole vault.
type Scope string

const (
	ScopeDocument Scope = "document"
	ScopeVault    Scope = "vault"
)

// DocumentState captures one document's content around a batch operation.
// Undo uses only Before; After is kept for inspection and journaling.
type DocumentState struct {
	Path   string `json:"path"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Entry records one completed batch operation.
type Entry struct {
	Time         time.Time       `json:"time"`
	Scope        Scope           `json:"scope"`
	Replacements int             `json:"replacements"`
	Query        pattern.Query   `json:"query"`
	Template     string          `json:"template"`
	Documents    []DocumentState `json:"documents"`
}

// History is a bounded log of entries, oldest first. Exceeding capacity
// silently evicts the oldest entry. A history belongs to one panel
// session; it starts empty and is cleared on teardown.
type History struct {
	capacity int
	entries  []Entry
}

// NewHistory creates an empty history. Non-positive capacity falls back
// to DefaultCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

// Len returns the number of undoable entries.
func (h *History) Len() int { return len(h.entries) }

// Push appends an entry, evicting the oldest beyond capacity.
func (h *History) Push(e Entry) {
	h.entries = append(h.entries, e)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
}

// PopMostRecent removes and returns the most recently pushed entry.
// There is no redo: a popped entry is gone.
func (h *History) PopMostRecent() (Entry, error) {
	if len(h.entries) == 0 {
		return Entry{}, errors.WithStack(ErrEmpty)
	}
	e := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return e, nil
}

// Clear drops every entry.
func (h *History) Clear() { h.entries = nil }

// Revert writes each document's before-content back verbatim. Failures
// are logged per document and never stop the remaining restores; restored
// and failed are counted independently.
func Revert(ctx context.Context, entry Entry, v vault.Vault) (restored, failed int) {
	logger := zerolog.Ctx(ctx)
	for _, doc := range entry.Documents {
		err := v.Write(ctx, vault.DocumentRef{Path: doc.Path}, doc.Before)
		if err != nil {
			logger.Warn().Str("path", doc.Path).Err(err).Msg("failed to restore document")
			failed++
			continue
		}
		restored++
	}
	return restored, failed
}
