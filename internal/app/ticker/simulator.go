// Package ticker simulates small per-coin price movements between market
// snapshot refreshes.
package ticker

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

const (
	// MaxStep is the largest relative move applied in a single tick.
	MaxStep = 0.0002

	DefaultMinFactor = 0.98
	DefaultMaxFactor = 1.02
)

// RandFunc returns a uniformly distributed number in [0, 1).
type RandFunc func() float64

// Simulator keeps one multiplicative jitter factor per held coin. Factors
// start at 1, move by at most MaxStep per tick and stay inside the
// [min, max] envelope.
type Simulator struct {
	mu      sync.Mutex
	factors map[string]float64
	rnd     RandFunc
	min     float64
	max     float64
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand replaces the random source.
func WithRand(rnd RandFunc) Option {
	return func(s *Simulator) {
		if rnd != nil {
			s.rnd = rnd
		}
	}
}

// WithEnvelope bounds the factor to [min, max]. Invalid bounds are ignored.
func WithEnvelope(min, max float64) Option {
	return func(s *Simulator) {
		if min > 0 && min <= 1 && max >= 1 && !math.IsInf(max, 0) {
			s.min, s.max = min, max
		}
	}
}

// NewSimulator creates a Simulator with the default envelope.
func NewSimulator(opts ...Option) *Simulator {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := &Simulator{
		factors: make(map[string]float64),
		rnd:     src.Float64,
		min:     DefaultMinFactor,
		max:     DefaultMaxFactor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Advance moves the factor of every given coin by one random step and drops
// factors for coins that are no longer held.
func (s *Simulator) Advance(coinIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	held := make(map[string]struct{}, len(coinIDs))
	for _, id := range coinIDs {
		if _, dup := held[id]; dup {
			continue
		}
		held[id] = struct{}{}

		f, ok := s.factors[id]
		if !ok {
			f = 1
		}
		step := s.rnd()*2*MaxStep - MaxStep
		s.factors[id] = s.clamp(f * (1 + step))
	}
	for id := range s.factors {
		if _, ok := held[id]; !ok {
			delete(s.factors, id)
		}
	}
}

// Reset puts every factor back to 1, anchoring jitter to the latest real price.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.factors {
		s.factors[id] = 1
	}
}

// Factor returns the factor for a coin, 1 if it has never ticked.
func (s *Simulator) Factor(coinID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.factors[coinID]; ok {
		return f
	}
	return 1
}

// Factors returns a copy of all current factors.
func (s *Simulator) Factors() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.factors))
	for id, f := range s.factors {
		out[id] = f
	}
	return out
}

func (s *Simulator) clamp(f float64) float64 {
	if math.IsNaN(f) {
		return 1
	}
	return math.Min(math.Max(f, s.min), s.max)
}
