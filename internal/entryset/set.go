// Package entryset provides the ordered, ID-indexed entry collection used by
// the in-memory and file backends.
//
// A Set is not safe for concurrent use; callers guard it with their own lock.
package entryset

import (
	"time"

	"github.com/Nitin-100/rustedclaw-sub001/pkg/idgen"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// Set keeps entries in insertion order with O(1) lookup by ID.
type Set struct {
	entries []*storage.Entry
	index   map[string]int
}

// New creates an empty set.
func New() *Set {
	return &Set{index: make(map[string]int)}
}

// Upsert stores e, overwriting any entry with the same ID in place.
// It reports whether an existing entry was replaced.
func (s *Set) Upsert(e *storage.Entry) bool {
	if i, ok := s.index[e.ID]; ok {
		s.entries[i] = e
		return true
	}
	s.index[e.ID] = len(s.entries)
	s.entries = append(s.entries, e)
	return false
}

// Delete removes the entry with the given ID and reports whether it existed.
func (s *Set) Delete(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	copy(s.entries[i:], s.entries[i+1:])
	s.entries[len(s.entries)-1] = nil
	s.entries = s.entries[:len(s.entries)-1]
	delete(s.index, id)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].ID] = j
	}
	return true
}

// Get returns a copy of the entry with the given ID.
func (s *Set) Get(id string) (*storage.Entry, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.entries[i].Clone(), true
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// Clear removes all entries.
func (s *Set) Clear() {
	s.entries = nil
	s.index = make(map[string]int)
}

// All returns the stored entries in insertion order.
//
// The slice and the entries are shared with the set; callers must not
// modify them and must not retain them past the lock that guards the set.
func (s *Set) All() []*storage.Entry {
	return s.entries
}

// Stored returns the stored entries whose IDs match results, in the same
// order. IDs that are no longer present are left out. The returned pointers
// are only meaningful as arguments to Touch.
func (s *Set) Stored(results []*storage.Entry) []*storage.Entry {
	out := make([]*storage.Entry, 0, len(results))
	for _, r := range results {
		if i, ok := s.index[r.ID]; ok {
			out = append(out, s.entries[i])
		}
	}
	return out
}

// Touch sets LastAccessed to t on each of the given stored entries that is
// still in the set. An entry overwritten or deleted since it was captured by
// Stored is skipped, so its replacement keeps its own timestamp.
func (s *Set) Touch(stored []*storage.Entry, t time.Time) {
	for _, e := range stored {
		if i, ok := s.index[e.ID]; ok && s.entries[i] == e {
			e.LastAccessed = t
		}
	}
}

// Prepare returns the copy of entry that a backend stores: an ID is assigned
// when missing, Score is reset, a zero CreatedAt becomes now and a zero
// LastAccessed becomes CreatedAt.
func Prepare(entry *storage.Entry, ids idgen.Generator, now time.Time) *storage.Entry {
	e := entry.Clone()
	if e.ID == "" {
		e.ID = ids.NewID()
	}
	e.Score = 0
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.LastAccessed.IsZero() {
		e.LastAccessed = e.CreatedAt
	}
	return e
}

// Stamp sets LastAccessed to now on each result.
func Stamp(results []*storage.Entry, now time.Time) {
	for _, r := range results {
		r.LastAccessed = now
	}
}
