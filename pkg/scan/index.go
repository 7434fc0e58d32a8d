package scan

import (
	"sort"
)

// DefaultMaxMatches bounds how many matches one scan pass may accumulate.
// Beyond this the scan stops early and the index is marked truncated.
const DefaultMaxMatches = 10000

// Index is the collection of matches from one scan pass. It is rebuilt
// from scratch on every new search; match IDs are only meaningful within
// the pass that produced them.
//
// The index may be paged with Slice while a scan is still appending to it.
// Canonical (path, line, start) ordering is guaranteed after Finalize.
type Index struct {
	matches   []Match
	byID      map[string]int
	max       int
	truncated bool
}

// NewIndex creates an empty index with the given match cap. A non-positive
// cap falls back to DefaultMaxMatches.
func NewIndex(maxMatches int) *Index {
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}
	return &Index{
		byID: map[string]int{},
		max:  maxMatches,
	}
}

// Remaining returns how many more matches the index will accept.
func (x *Index) Remaining() int { return x.max - len(x.matches) }

// Add appends matches until the cap is hit, then marks the index
// truncated and drops the remainder. Returns false once the cap is hit.
func (x *Index) Add(matches ...Match) bool {
	for _, m := range matches {
		if len(x.matches) >= x.max {
			x.truncated = true
			return false
		}
		x.byID[m.ID] = len(x.matches)
		x.matches = append(x.matches, m)
	}
	return true
}

// MarkTruncated records that the scan stopped before exhausting the
// corpus.
func (x *Index) MarkTruncated() { x.truncated = true }

// Truncated reports whether the match cap cut the scan short.
func (x *Index) Truncated() bool { return x.truncated }

// Len returns the number of matches held.
func (x *Index) Len() int { return len(x.matches) }

// Get returns the match with the given id.
func (x *Index) Get(id string) (Match, bool) {
	i, ok := x.byID[id]
	if !ok {
		return Match{}, false
	}
	return x.matches[i], true
}

// SetIncluded flips a match's approval flag. Unknown ids are a no-op:
// stale UI references after a re-search must not blow up.
func (x *Index) SetIncluded(id string, included bool) {
	if i, ok := x.byID[id]; ok {
		x.matches[i].Included = included
	}
}

// Slice returns a page of matches for incremental rendering. Bounds are
// clamped to the current length.
func (x *Index) Slice(start, end int) []Match {
	if start < 0 {
		start = 0
	}
	if end > len(x.matches) {
		end = len(x.matches)
	}
	if start >= end {
		return nil
	}
	page := make([]Match, end-start)
	copy(page, x.matches[start:end])
	return page
}

// All returns a copy of every match in current index order.
func (x *Index) All() []Match {
	return x.Slice(0, len(x.matches))
}

// Approved returns the matches still flagged for replacement, in
// canonical order.
func (x *Index) Approved() []Match {
	var approved []Match
	for _, m := range x.matches {
		if m.Included {
			approved = append(approved, m)
		}
	}
	sort.Slice(approved, func(i, j int) bool { return less(approved[i], approved[j]) })
	return approved
}

// Finalize sorts the index into canonical order. Documents are scanned in
// sorted path order so appends usually arrive canonical already, but the
// ordering contract holds regardless of what interleaving the pager saw
// while the scan was in flight.
func (x *Index) Finalize() {
	sort.SliceStable(x.matches, func(i, j int) bool { return less(x.matches[i], x.matches[j]) })
	for i, m := range x.matches {
		x.byID[m.ID] = i
	}
}
