// Package random provides the draws used to synthesize device readings. Callers depend on Source
// so tests can replace the distributions with fixed sequences.
package random

import (
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source draws uniform and Gaussian samples.
type Source interface {
	Uniform(min, max float64) float64
	Normal(mean, stddev float64) float64
}

// Distributions is a Source backed by gonum distributions. It is safe for concurrent use.
type Distributions struct {
	src rand.Source
}

// New returns a Source. A zero seed uses the runtime's randomly seeded generator, any other seed
// gives a reproducible stream.
func New(seed uint64) *Distributions {
	if seed == 0 {
		return &Distributions{}
	}
	return &Distributions{src: &lockedSource{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}}
}

// Uniform draws from U(min, max).
func (d *Distributions) Uniform(min, max float64) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: d.src}.Rand()
}

// Normal draws from N(mean, stddev²).
func (d *Distributions) Normal(mean, stddev float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: stddev, Src: d.src}.Rand()
}

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// Sequence replays fixed values. Uniform returns the next entry of the uniform list scaled into
// [min, max) (entries are fractions in [0, 1)); Normal returns the next raw Gaussian value as-is.
// Both lists wrap around when exhausted.
type Sequence struct {
	mu      sync.Mutex
	uniform []float64
	normal  []float64
	ui, ni  int
}

// NewSequence builds a deterministic Source.
func NewSequence(uniform, normal []float64) *Sequence {
	return &Sequence{uniform: uniform, normal: normal}
}

// Uniform returns the next uniform fraction scaled into [min, max).
func (s *Sequence) Uniform(min, max float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.uniform) == 0 {
		return min
	}
	f := s.uniform[s.ui%len(s.uniform)]
	s.ui++
	return min + f*(max-min)
}

// Normal returns the next Gaussian value; mean and stddev are ignored.
func (s *Sequence) Normal(mean, stddev float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.normal) == 0 {
		return mean
	}
	v := s.normal[s.ni%len(s.normal)]
	s.ni++
	return v
}
