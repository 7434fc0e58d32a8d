package vault

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

// MemVault is an in-memory Vault used in tests and previews.
type MemVault struct {
	docs   map[string]string
	active string

	// FailReads and FailWrites force per-document I/O failures, keyed by
	// path. Tests use these to exercise the partial-failure policy.
	FailReads  map[string]bool
	FailWrites map[string]bool
}

// NewMemVault creates a vault pre-populated with path -> content entries.
func NewMemVault(docs map[string]string) *MemVault {
	copied := make(map[string]string, len(docs))
	for path, content := range docs {
		copied[path] = content
	}
	return &MemVault{
		docs:       copied,
		FailReads:  map[string]bool{},
		FailWrites: map[string]bool{},
	}
}

// SetActive marks a document as the currently open one.
func (v *MemVault) SetActive(path string) { v.active = path }

// Active implements ActiveProvider.
func (v *MemVault) Active() (DocumentRef, bool) {
	if v.active == "" {
		return DocumentRef{}, false
	}
	return DocumentRef{Path: v.active}, true
}

// List implements Vault.
func (v *MemVault) List(ctx context.Context) ([]DocumentRef, error) {
	refs := make([]DocumentRef, 0, len(v.docs))
	for path := range v.docs {
		refs = append(refs, DocumentRef{Path: path})
	}
	SortRefs(refs)
	return refs, nil
}

// Read implements Vault.
func (v *MemVault) Read(ctx context.Context, ref DocumentRef) (string, error) {
	if v.FailReads[ref.Path] {
		return "", errors.Errorf("reading document %s: forced failure", ref.Path)
	}
	content, ok := v.docs[ref.Path]
	if !ok {
		return "", errors.Errorf("reading document %s: not found", ref.Path)
	}
	return content, nil
}

// Write implements Vault.
func (v *MemVault) Write(ctx context.Context, ref DocumentRef, content string) error {
	if v.FailWrites[ref.Path] {
		return errors.Errorf("writing document %s: forced failure", ref.Path)
	}
	v.docs[ref.Path] = content
	return nil
}
