package cards

import (
	"math"
	"math/rand/v2"
)

// Source is the single uniform random seam used by every engine.
// Float64 must return a value in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a non-deterministic source for production use.
func NewSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// IntBetween draws an integer uniformly from [lo, hi]. It always consumes
// exactly one value from src, even for a single-value range.
func IntBetween(src Source, lo, hi int) int {
	r := src.Float64()
	if hi <= lo {
		return lo
	}
	n := hi - lo + 1
	v := int(math.Floor(r * float64(n)))
	if v >= n {
		v = n - 1
	}
	return lo + v
}

// FloatBetween draws a float uniformly from [lo, hi).
func FloatBetween(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Pick returns a uniformly chosen index in [0, n).
func Pick(src Source, n int) int {
	return IntBetween(src, 0, n-1)
}

// RandomType picks one of the three battle types uniformly.
func RandomType(src Source) Type {
	return Types[Pick(src, len(Types))]
}

// Scripted replays fixed values and then repeats the last one. Handy for
// deterministic tests and for replaying recorded draws.
type Scripted struct {
	Values []float64
	pos    int
}

func NewScripted(values ...float64) *Scripted {
	return &Scripted{Values: values}
}

func (s *Scripted) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	if s.pos >= len(s.Values) {
		return s.Values[len(s.Values)-1]
	}
	v := s.Values[s.pos]
	s.pos++
	return v
}

// Draws reports how many values have been consumed.
func (s *Scripted) Draws() int {
	return s.pos
}
