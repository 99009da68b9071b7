package interp

import (
	"errors"
	"math"
	"testing"

	"github.com/verte-zerg/trailcap/internal/model"
)

func TestResampleRowCountForWholeSpan(t *testing.T) {
	// A trial spanning [0, 0.8] seconds must produce exactly 800 rows,
	// covering milliseconds 0 through 799.
	p := model.Path{
		{Trial: 7, T: 0, X: 0, Y: 0},
		{Trial: 7, T: 0.3, X: 30, Y: -15},
		{Trial: 7, T: 0.8, X: 100, Y: 50},
	}
	out, err := Resample(p)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if len(out) != 800 {
		t.Fatalf("expected 800 rows, got %d", len(out))
	}
	if out[0].T != 0 {
		t.Fatalf("first tick should be t=0, got %v", out[0].T)
	}
	if got, want := out[799].T, 0.799; math.Abs(got-want) > 1e-12 {
		t.Fatalf("last tick should be t=0.799, got %v", got)
	}
	for _, s := range out {
		if s.Trial != 7 {
			t.Fatalf("trial id not preserved: %+v", s)
		}
	}
}

func TestResamplePointsLieOnSegments(t *testing.T) {
	p := model.Path{
		{T: 0.0004, X: 1, Y: 2},
		{T: 0.25, X: 11, Y: -8},
		{T: 0.251, X: 12, Y: -8.5},
		{T: 0.74, X: 40, Y: 3},
	}
	out, err := Resample(p)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected output rows")
	}
	for _, s := range out {
		seg := -1
		for i := 0; i+1 < len(p); i++ {
			if s.T >= p[i].T && s.T <= p[i+1].T {
				seg = i
				break
			}
		}
		if seg == -1 {
			t.Fatalf("tick t=%v outside the path span", s.T)
		}
		a, b := p[seg], p[seg+1]
		frac := (s.T - a.T) / (b.T - a.T)
		wantX := a.X + (b.X-a.X)*frac
		wantY := a.Y + (b.Y-a.Y)*frac
		if math.Abs(s.X-wantX) > 1e-9 || math.Abs(s.Y-wantY) > 1e-9 {
			t.Fatalf("tick t=%v off segment: got (%v,%v) want (%v,%v)", s.T, s.X, s.Y, wantX, wantY)
		}
	}
}

func TestResampleGridBounds(t *testing.T) {
	// ceil(0.0102*1000)=11, ceil(0.0185*1000)=19 -> ticks 11..18.
	p := model.Path{
		{T: 0.0102, X: 0, Y: 0},
		{T: 0.0185, X: 10, Y: 10},
	}
	out, err := Resample(p)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if len(out) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(out))
	}
	if math.Abs(out[0].T-0.011) > 1e-12 {
		t.Fatalf("first tick should be 0.011, got %v", out[0].T)
	}
	if math.Abs(out[7].T-0.018) > 1e-12 {
		t.Fatalf("last tick should be 0.018, got %v", out[7].T)
	}
}

func TestResampleSubMillisecondSpan(t *testing.T) {
	p := model.Path{
		{T: 0, X: 0, Y: 0},
		{T: 0.0004, X: 1, Y: 1},
	}
	out, err := Resample(p)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty grid for sub-millisecond span, got %d rows", len(out))
	}
}

func TestResampleErrors(t *testing.T) {
	if _, err := Resample(model.Path{{T: 0}}); !errors.Is(err, ErrTooFewSamples) {
		t.Fatalf("expected ErrTooFewSamples, got %v", err)
	}
	dup := model.Path{{T: 0, X: 0}, {T: 0.1, X: 1}, {T: 0.1, X: 2}, {T: 0.2, X: 3}}
	if _, err := Resample(dup); !errors.Is(err, ErrDuplicateTime) {
		t.Fatalf("expected ErrDuplicateTime, got %v", err)
	}
	back := model.Path{{T: 0}, {T: 0.2}, {T: 0.1}}
	if _, err := Resample(back); !errors.Is(err, ErrNonMonotonic) {
		t.Fatalf("expected ErrNonMonotonic, got %v", err)
	}
}

func TestResampleIsDeterministic(t *testing.T) {
	p := model.Path{
		{T: 0, X: 0, Y: 0},
		{T: 0.123, X: 5, Y: -3},
		{T: 0.456, X: 20, Y: 9},
	}
	a, err := Resample(p)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	b, err := Resample(p)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
