package model

// Sequence hands out monotonically increasing ids. It has a single writer and is not safe
// for concurrent use.
type Sequence struct {
	next int64
}

// NewSequence returns a sequence whose first id is start.
func NewSequence(start int64) *Sequence {
	return &Sequence{next: start}
}

// Next returns the next id.
func (s *Sequence) Next() int64 {
	id := s.next
	s.next++
	return id
}

// Peek returns the id Next would return without consuming it.
func (s *Sequence) Peek() int64 {
	return s.next
}
