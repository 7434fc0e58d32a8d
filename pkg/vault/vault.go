// Package vault abstracts the note collection the engine searches and
// rewrites. The engine only ever needs to enumerate documents, read their
// full text, and write full text back.
package vault

import (
	"context"
	"sort"
)

// DocumentRef identifies one document by its vault-relative path.
type DocumentRef struct {
	Path string `json:"path"`
}

// Vault is the document storage the engine operates on.
type Vault interface {
	// List enumerates every searchable document, sorted by path.
	List(ctx context.Context) ([]DocumentRef, error)

	// Read returns the full text content of a document.
	Read(ctx context.Context, ref DocumentRef) (string, error)

	// Write replaces the full text content of a document.
	Write(ctx context.Context, ref DocumentRef, content string) error
}

// ActiveProvider is implemented by vaults that track a currently open
// document, used to scope a search to one document instead of the whole
// collection.
type ActiveProvider interface {
	Active() (DocumentRef, bool)
}

// SortRefs orders refs by path, the canonical corpus order.
func SortRefs(refs []DocumentRef) {
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Path < refs[j].Path
	})
}
