package repository

import "sync/atomic"

// Store holds the reference to the current snapshot. Readers always see
// either the old or the new complete snapshot, never a partial one; the
// swap is a single atomic pointer exchange.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates an empty Store. Load returns nil until the first swap.
func NewStore() *Store {
	return &Store{}
}

// Load returns the current snapshot, or nil before the first refresh.
func (s *Store) Load() *Snapshot {
	return s.current.Load()
}

// Swap installs snap if its fetch sequence is newer than the current one
// and reports whether it was installed. A superseded fetch that finishes
// after a newer one is discarded, never applied (last-write-wins keyed by
// fetch sequence).
func (s *Store) Swap(snap *Snapshot) bool {
	for {
		cur := s.current.Load()
		if cur != nil && snap.fetchSeq <= cur.fetchSeq {
			return false
		}
		if s.current.CompareAndSwap(cur, snap) {
			return true
		}
	}
}
