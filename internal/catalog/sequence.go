package catalog

import "sync/atomic"

// Sequence hands out product ids.
//
// Ids are strictly increasing for the lifetime of a Sequence. Seed it with
// the highest id still referenced anywhere (catalog or order) so a stored id
// is never reused.
type Sequence struct {
	last atomic.Int64
}

// NewSequenceAt creates a sequence whose first id is start+1.
// Use 0 for a fresh catalog.
func NewSequenceAt(start int64) *Sequence {
	s := &Sequence{}
	s.last.Store(start)
	return s
}

// Next returns the next id.
func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}
