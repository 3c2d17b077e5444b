package randsrc

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniform floats in [0, 1). Card-number generation and
// backend failure injection both draw from it, so tests can substitute a
// scripted sequence.
type Source interface {
	Float64() float64
}

type pcg struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a seedable Source backed by math/rand/v2.
func New(seed uint64) Source {
	return &pcg{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *pcg) Float64() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Float64()
}

// Sequence replays a fixed list of values, cycling when exhausted.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	pos    int
}

// NewSequence creates a deterministic Source from the given values.
// With no values it always yields 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}
