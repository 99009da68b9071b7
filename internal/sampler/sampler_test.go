package sampler

import (
	"math"
	"testing"
)

func TestOrientationStepsAndRange(t *testing.T) {
	rnd := NewRand(1)
	s, err := NewOrientation(rnd, 8)
	if err != nil {
		t.Fatalf("new orientation: %v", err)
	}
	step := 2 * math.Pi / 8
	for i := 0; i < 1000; i++ {
		v := s.Next()
		if v < 0 || v >= 2*math.Pi {
			t.Fatalf("angle out of range: %v", v)
		}
		k := v / step
		if math.Abs(k-math.Round(k)) > 1e-9 {
			t.Fatalf("angle %v is not a multiple of the step", v)
		}
	}
}

func TestOrientationRejectsZeroSteps(t *testing.T) {
	if _, err := NewOrientation(NewRand(1), 0); err == nil {
		t.Fatal("expected error for zero steps")
	}
}

func TestChoiceOnlyYieldsGivenValues(t *testing.T) {
	rnd := NewRand(2)
	s, err := NewChoice(rnd, []int{3, 6, 9})
	if err != nil {
		t.Fatalf("new choice: %v", err)
	}
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := s.Next()
		if v != 3 && v != 6 && v != 9 {
			t.Fatalf("unexpected value %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected all 3 values to appear, got %v", seen)
	}
}

func TestChoiceRejectsEmptySet(t *testing.T) {
	if _, err := NewChoice(NewRand(1), nil); err == nil {
		t.Fatal("expected error for empty choice set")
	}
}

func TestChoiceCopiesValues(t *testing.T) {
	values := []int{5}
	s, err := NewChoice(NewRand(1), values)
	if err != nil {
		t.Fatalf("new choice: %v", err)
	}
	values[0] = 7
	if got := s.Next(); got != 5 {
		t.Fatalf("sampler observed caller mutation, got %d", got)
	}
}

func TestUniformRange(t *testing.T) {
	rnd := NewRand(3)
	s, err := NewUniform(rnd, 100, 290)
	if err != nil {
		t.Fatalf("new uniform: %v", err)
	}
	for i := 0; i < 1000; i++ {
		v := s.Next()
		if v < 100 || v >= 290 {
			t.Fatalf("value out of range: %v", v)
		}
	}
}

func TestUniformRejectsEmptyInterval(t *testing.T) {
	if _, err := NewUniform(NewRand(1), 5, 5); err == nil {
		t.Fatal("expected error for empty interval")
	}
}

func TestRangeBounds(t *testing.T) {
	rnd := NewRand(4)
	s, err := NewRange(rnd, 2000, 4000)
	if err != nil {
		t.Fatalf("new range: %v", err)
	}
	for i := 0; i < 1000; i++ {
		v := s.Next()
		if v < 2000 || v >= 4000 {
			t.Fatalf("value out of range: %d", v)
		}
	}
}

func TestRangeRejectsEmptyInterval(t *testing.T) {
	if _, err := NewRange(NewRand(1), 10, 10); err == nil {
		t.Fatal("expected error for empty interval")
	}
}

func TestSamplersAreDeterministicPerSeed(t *testing.T) {
	a, err := NewRange(NewRand(42), 2000, 4000)
	if err != nil {
		t.Fatalf("new range: %v", err)
	}
	b, err := NewRange(NewRand(42), 2000, 4000)
	if err != nil {
		t.Fatalf("new range: %v", err)
	}
	for i := 0; i < 100; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
	}
}
