// Package interp resamples pointer paths onto a uniform time grid.
package interp

import (
	"errors"
	"fmt"
	"math"

	"github.com/verte-zerg/trailcap/internal/model"
)

// Sentinel errors for degenerate input paths.
var (
	ErrTooFewSamples = errors.New("interp: path needs at least 2 samples")
	ErrNonMonotonic  = errors.New("interp: sample times decrease")
	ErrDuplicateTime = errors.New("interp: duplicate sample times")
)

// Resample interpolates a path at every whole millisecond within
// [ceil(minT*1000), ceil(maxT*1000)). X and Y are interpolated
// linearly and independently against elapsed time. The result is
// deterministic for identical input.
func Resample(p model.Path) (model.InterpolatedPath, error) {
	if len(p) < 2 {
		return nil, fmt.Errorf("%w (got %d)", ErrTooFewSamples, len(p))
	}
	for i := 1; i < len(p); i++ {
		if p[i].T < p[i-1].T {
			return nil, fmt.Errorf("%w at sample %d", ErrNonMonotonic, i)
		}
		if p[i].T == p[i-1].T {
			return nil, fmt.Errorf("%w at sample %d (t=%v)", ErrDuplicateTime, i, p[i].T)
		}
	}

	first := int(math.Ceil(p[0].T * 1000))
	last := int(math.Ceil(p[len(p)-1].T * 1000))
	if last <= first {
		return model.InterpolatedPath{}, nil
	}

	out := make(model.InterpolatedPath, 0, last-first)
	seg := 0
	for tick := first; tick < last; tick++ {
		t := float64(tick) / 1000
		for t > p[seg+1].T {
			seg++
		}
		a, b := p[seg], p[seg+1]
		frac := (t - a.T) / (b.T - a.T)
		out = append(out, model.Sample{
			Trial: a.Trial,
			T:     t,
			X:     a.X + (b.X-a.X)*frac,
			Y:     a.Y + (b.Y-a.Y)*frac,
		})
	}
	return out, nil
}
