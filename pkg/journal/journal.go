// Package journal persists undo entries to a lock-style JSON file next to
// the vault, so a later process run can still revert the most recent
// batch. It mirrors the in-memory history's bound and eviction rules.
package journal

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/notegrep/pkg/undo"
)

// DefaultFilename is the journal file kept at the vault root.
const DefaultFilename = ".notegrep.lock"

// Journal is the on-disk undo log.
type Journal struct {
	LastUpdated time.Time    `json:"last_updated"`
	Entries     []undo.Entry `json:"entries"`

	path     string
	capacity int
}

// Load reads the journal at path, returning an empty journal when the
// file does not exist yet. Non-positive capacity falls back to the
// in-memory history default.
func Load(ctx context.Context, path string, capacity int) (*Journal, error) {
	if capacity <= 0 {
		capacity = undo.DefaultCapacity
	}
	j := &Journal{path: path, capacity: capacity}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return j, nil
	}
	if err != nil {
		return nil, errors.Errorf("reading journal: %w", err)
	}
	if err := json.Unmarshal(data, j); err != nil {
		return nil, errors.Errorf("parsing journal: %w", err)
	}

	if len(j.Entries) > j.capacity {
		j.Entries = j.Entries[len(j.Entries)-j.capacity:]
	}
	return j, nil
}

// Len returns the number of persisted entries.
func (j *Journal) Len() int { return len(j.Entries) }

// Push appends an entry, evicting the oldest beyond capacity.
func (j *Journal) Push(e undo.Entry) {
	j.Entries = append(j.Entries, e)
	if len(j.Entries) > j.capacity {
		j.Entries = j.Entries[len(j.Entries)-j.capacity:]
	}
}

// PopMostRecent removes and returns the most recent entry.
func (j *Journal) PopMostRecent() (undo.Entry, error) {
	if len(j.Entries) == 0 {
		return undo.Entry{}, errors.WithStack(undo.ErrEmpty)
	}
	e := j.Entries[len(j.Entries)-1]
	j.Entries = j.Entries[:len(j.Entries)-1]
	return e, nil
}

// Save writes the journal back to disk.
func (j *Journal) Save(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", j.path).Int("entries", len(j.Entries)).Msg("writing journal")

	j.LastUpdated = time.Now()
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return errors.Errorf("encoding journal: %w", err)
	}
	if err := os.WriteFile(j.path, data, 0o644); err != nil {
		return errors.Errorf("writing journal: %w", err)
	}
	return nil
}
