package vault

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultIncludes matches the document types a note vault normally holds.
var DefaultIncludes = []string{"**/*.md", "**/*.txt"}

// DirVault is a Vault backed by a directory tree on disk. Paths are stored
// and reported relative to the root, with forward slashes.
type DirVault struct {
	root     string
	includes []string
	ignores  []string
	active   string
}

// DirOption configures a DirVault.
type DirOption func(*DirVault)

// WithIncludes sets the doublestar patterns a path must match to count as
// a document. Defaults to DefaultIncludes.
func WithIncludes(patterns ...string) DirOption {
	return func(v *DirVault) {
		if len(patterns) > 0 {
			v.includes = patterns
		}
	}
}

// WithIgnores sets doublestar patterns for paths to exclude.
func WithIgnores(patterns ...string) DirOption {
	return func(v *DirVault) { v.ignores = patterns }
}

// NewDirVault creates a vault rooted at dir.
func NewDirVault(dir string, opts ...DirOption) (*DirVault, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Errorf("resolving vault root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Errorf("checking vault root: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("vault root is not a directory: %s", abs)
	}

	v := &DirVault{root: abs, includes: DefaultIncludes}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Root returns the absolute vault root directory.
func (v *DirVault) Root() string { return v.root }

// SetActive marks a document as the currently open one. An empty path
// clears it.
func (v *DirVault) SetActive(path string) { v.active = path }

// Active implements ActiveProvider.
func (v *DirVault) Active() (DocumentRef, bool) {
	if v.active == "" {
		return DocumentRef{}, false
	}
	return DocumentRef{Path: v.active}, true
}

// List implements Vault. Walk errors on individual entries are logged and
// skipped so one unreadable subtree does not hide the rest of the vault.
func (v *DirVault) List(ctx context.Context) ([]DocumentRef, error) {
	logger := zerolog.Ctx(ctx)

	var refs []DocumentRef
	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug().Str("path", path).Err(err).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(v.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if v.selects(rel) {
			refs = append(refs, DocumentRef{Path: rel})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking vault: %w", err)
	}

	SortRefs(refs)
	return refs, nil
}

// selects checks the include/ignore patterns against a relative path.
func (v *DirVault) selects(rel string) bool {
	for _, pattern := range v.ignores {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return false
		}
	}
	for _, pattern := range v.includes {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Read implements Vault.
func (v *DirVault) Read(ctx context.Context, ref DocumentRef) (string, error) {
	data, err := os.ReadFile(v.abs(ref.Path))
	if err != nil {
		return "", errors.Errorf("reading document %s: %w", ref.Path, err)
	}
	return string(data), nil
}

// Write implements Vault. The write goes through a temp file plus rename
// so a crash mid-write never leaves a half-written note behind.
func (v *DirVault) Write(ctx context.Context, ref DocumentRef, content string) error {
	target := v.abs(ref.Path)

	tmp, err := os.CreateTemp(filepath.Dir(target), ".notegrep-*")
	if err != nil {
		return errors.Errorf("creating temp file for %s: %w", ref.Path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Errorf("writing temp file for %s: %w", ref.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("closing temp file for %s: %w", ref.Path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("replacing document %s: %w", ref.Path, err)
	}
	return nil
}

func (v *DirVault) abs(rel string) string {
	return filepath.Join(v.root, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
}
