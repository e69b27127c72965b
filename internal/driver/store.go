package driver

import "sync/atomic"

// Store publishes the live snapshot with freeze-and-replace semantics: a
// replaced snapshot stays valid for readers that already hold it.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// Current returns the live snapshot, nil before the first Replace.
func (s *Store) Current() *Snapshot {
	return s.cur.Load()
}

// Replace publishes next and returns the snapshot it displaced.
func (s *Store) Replace(next *Snapshot) *Snapshot {
	return s.cur.Swap(next)
}
