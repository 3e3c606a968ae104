package warehouse

// Sequence allocates dense, 1-based surrogate keys in call order. Keys are
// stable within a single rebuild only; nothing survives across runs.
type Sequence struct {
	last int
}

// NewSequence returns an allocator whose first key is 1.
func NewSequence() *Sequence { return &Sequence{} }

// Next returns the next key in the sequence.
func (s *Sequence) Next() int {
	s.last++
	return s.last
}

// Last returns the most recently allocated key, or 0 before any allocation.
func (s *Sequence) Last() int { return s.last }
