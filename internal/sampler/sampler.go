// Package sampler provides the random draws that parameterize trials.
package sampler

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// NewRand returns a rand source for the samplers. A zero seed picks the
// current time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Orientation draws uniformly from n equally spaced angles in [0, 2π).
type Orientation struct {
	rnd *rand.Rand
	n   int
}

// NewOrientation constructs an orientation sampler with n steps.
func NewOrientation(rnd *rand.Rand, n int) (*Orientation, error) {
	if n <= 0 {
		return nil, fmt.Errorf("orientation sampler needs at least 1 step, got %d", n)
	}
	return &Orientation{rnd: rnd, n: n}, nil
}

// Next returns the next angle in radians.
func (o *Orientation) Next() float64 {
	return 2 * math.Pi * float64(o.rnd.Intn(o.n)) / float64(o.n)
}

// Choice draws uniformly from a fixed set of integers.
type Choice struct {
	rnd    *rand.Rand
	values []int
}

// NewChoice constructs a choice sampler over the given values.
func NewChoice(rnd *rand.Rand, values []int) (*Choice, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("choice sampler needs a non-empty value set")
	}
	copied := make([]int, len(values))
	copy(copied, values)
	return &Choice{rnd: rnd, values: copied}, nil
}

// Next returns the next drawn value.
func (c *Choice) Next() int {
	return c.values[c.rnd.Intn(len(c.values))]
}

// Uniform draws continuous values from [lo, hi).
type Uniform struct {
	rnd    *rand.Rand
	lo, hi float64
}

// NewUniform constructs a continuous uniform sampler on [lo, hi).
func NewUniform(rnd *rand.Rand, lo, hi float64) (*Uniform, error) {
	if hi <= lo {
		return nil, fmt.Errorf("uniform sampler needs lo < hi, got [%v, %v)", lo, hi)
	}
	return &Uniform{rnd: rnd, lo: lo, hi: hi}, nil
}

// Next returns the next drawn value.
func (u *Uniform) Next() float64 {
	return u.lo + u.rnd.Float64()*(u.hi-u.lo)
}

// Range draws integers from [lo, hi).
type Range struct {
	rnd    *rand.Rand
	lo, hi int
}

// NewRange constructs an integer sampler on [lo, hi).
func NewRange(rnd *rand.Rand, lo, hi int) (*Range, error) {
	if hi <= lo {
		return nil, fmt.Errorf("range sampler needs lo < hi, got [%d, %d)", lo, hi)
	}
	return &Range{rnd: rnd, lo: lo, hi: hi}, nil
}

// Next returns the next drawn value.
func (r *Range) Next() int {
	return r.lo + r.rnd.Intn(r.hi-r.lo)
}
