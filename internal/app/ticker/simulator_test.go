package ticker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constRand(v float64) RandFunc {
	return func() float64 { return v }
}

func TestAdvance_InitializesAtOneAndSteps(t *testing.T) {
	s := NewSimulator(WithRand(constRand(1)))
	assert.Equal(t, 1.0, s.Factor("bitcoin"))

	s.Advance([]string{"bitcoin"})
	assert.InDelta(t, 1+MaxStep, s.Factor("bitcoin"), 1e-12)

	s.Advance([]string{"bitcoin"})
	assert.InDelta(t, (1+MaxStep)*(1+MaxStep), s.Factor("bitcoin"), 1e-12)
}

func TestAdvance_StepIsBounded(t *testing.T) {
	s := NewSimulator()
	prev := 1.0
	for i := 0; i < 1000; i++ {
		s.Advance([]string{"eth"})
		f := s.Factor("eth")
		ratio := f / prev
		require.GreaterOrEqual(t, ratio, 1-MaxStep-1e-12)
		require.LessOrEqual(t, ratio, 1+MaxStep+1e-12)
		prev = f
	}
}

func TestAdvance_StaysInsideEnvelope(t *testing.T) {
	up := NewSimulator(WithRand(constRand(0.9999999)))
	down := NewSimulator(WithRand(constRand(0)))
	for i := 0; i < 20000; i++ {
		up.Advance([]string{"x"})
		down.Advance([]string{"x"})
	}
	assert.Equal(t, DefaultMaxFactor, up.Factor("x"))
	assert.Equal(t, DefaultMinFactor, down.Factor("x"))
}

func TestAdvance_CustomEnvelope(t *testing.T) {
	s := NewSimulator(WithRand(constRand(0.9999999)), WithEnvelope(0.999, 1.001))
	for i := 0; i < 100; i++ {
		s.Advance([]string{"x"})
	}
	assert.Equal(t, 1.001, s.Factor("x"))
}

func TestWithEnvelope_IgnoresInvalidBounds(t *testing.T) {
	s := NewSimulator(WithEnvelope(1.5, 0.5))
	assert.Equal(t, DefaultMinFactor, s.min)
	assert.Equal(t, DefaultMaxFactor, s.max)
}

func TestAdvance_DropsCoinsNoLongerHeld(t *testing.T) {
	s := NewSimulator(WithRand(constRand(1)))
	s.Advance([]string{"bitcoin", "ethereum"})
	s.Advance([]string{"bitcoin"})

	factors := s.Factors()
	assert.Contains(t, factors, "bitcoin")
	assert.NotContains(t, factors, "ethereum")
	assert.Equal(t, 1.0, s.Factor("ethereum"))
}

func TestAdvance_DuplicateCoinStepsOnce(t *testing.T) {
	s := NewSimulator(WithRand(constRand(1)))
	s.Advance([]string{"bitcoin", "bitcoin"})
	assert.InDelta(t, 1+MaxStep, s.Factor("bitcoin"), 1e-12)
}

func TestReset(t *testing.T) {
	s := NewSimulator(WithRand(constRand(1)))
	s.Advance([]string{"bitcoin"})
	s.Reset()
	assert.Equal(t, 1.0, s.Factor("bitcoin"))
	assert.Contains(t, s.Factors(), "bitcoin")
}

func TestFactors_ReturnsCopy(t *testing.T) {
	s := NewSimulator(WithRand(constRand(1)))
	s.Advance([]string{"bitcoin"})
	f := s.Factors()
	f["bitcoin"] = 42
	assert.NotEqual(t, 42.0, s.Factor("bitcoin"))
}
