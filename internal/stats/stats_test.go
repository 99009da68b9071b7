package stats

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/trailcap/internal/model"
)

func trial(method model.InputMethod, training bool, distance float64, radius int, durationMs int64, samples int) model.TrialSummary {
	return model.TrialSummary{
		InputMethod:    method,
		Training:       training,
		TargetDistance: distance,
		TargetRadius:   radius,
		DurationMs:     durationMs,
		SampleCount:    samples,
		EndedAt:        time.Unix(0, 0),
	}
}

func TestTrialMetrics(t *testing.T) {
	mt, rate, id, tp := TrialMetrics(trial(model.Mouse, false, 120, 3, 800, 40))
	if mt != 0.8 {
		t.Fatalf("expected 0.8s movement time, got %v", mt)
	}
	if rate != 50 {
		t.Fatalf("expected 50 samples/s, got %v", rate)
	}
	wantID := math.Log2(1 + 120.0/6.0)
	if math.Abs(id-wantID) > 1e-12 {
		t.Fatalf("expected difficulty %v, got %v", wantID, id)
	}
	if math.Abs(tp-wantID/0.8) > 1e-12 {
		t.Fatalf("expected throughput %v, got %v", wantID/0.8, tp)
	}
}

func TestTrialMetricsDegenerate(t *testing.T) {
	mt, rate, id, tp := TrialMetrics(trial(model.Mouse, false, 120, 0, 0, 40))
	if mt != 0 || rate != 0 || id != 0 || tp != 0 {
		t.Fatalf("expected zero metrics, got %v %v %v %v", mt, rate, id, tp)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5, 4.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], out[i])
		}
	}

	out = MovingAverage(values, 1)
	for i := range values {
		if out[i] != values[i] {
			t.Fatalf("window 1 must copy values, got %v", out)
		}
	}
}

func TestSparkline(t *testing.T) {
	line := Sparkline([]float64{0, 5, 10})
	if len(line) != 3 {
		t.Fatalf("expected 3 chars, got %q", line)
	}
	if line[0] != ' ' || line[2] != '@' {
		t.Fatalf("expected extremes to map to edge chars, got %q", line)
	}
	flat := Sparkline([]float64{3, 3, 3})
	if len(flat) != 3 || flat[0] != flat[1] || flat[1] != flat[2] {
		t.Fatalf("flat series must render uniformly, got %q", flat)
	}
	if Sparkline(nil) != "" {
		t.Fatal("empty series must render empty")
	}
}

func TestRenderSummary(t *testing.T) {
	trials := []model.TrialSummary{
		trial(model.Mouse, true, 100, 3, 900, 45),
		trial(model.Mouse, false, 120, 3, 800, 40),
		trial(model.Trackpad, false, 150, 4, 1200, 60),
	}
	var b strings.Builder
	if err := RenderSummary(&b, trials); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "Trials: 3 (mouse 1, trackpad 1, training 1)") {
		t.Fatalf("unexpected counts line:\n%s", out)
	}
	if !strings.Contains(out, "Avg movement time: 1.000s") {
		t.Fatalf("unexpected movement time:\n%s", out)
	}
	if !strings.Contains(out, "Best movement time: 0.800s") {
		t.Fatalf("unexpected best time:\n%s", out)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var b strings.Builder
	if err := RenderSummary(&b, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(b.String(), "No trials found.") {
		t.Fatalf("expected empty notice, got %q", b.String())
	}
}

func TestRenderTrialTable(t *testing.T) {
	trials := []model.TrialSummary{
		trial(model.Mouse, false, 120, 3, 800, 40),
		trial(model.Trackpad, true, 90, 5, 1100, 55),
	}
	trials[0].Trial = 7
	trials[1].Trial = 8
	var b strings.Builder
	if err := RenderTrialTable(&b, trials); err != nil {
		t.Fatalf("render table: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "Trial Method") {
		t.Fatalf("expected header row:\n%s", out)
	}
	if !strings.Contains(out, "mouse") || !strings.Contains(out, "trackpad (training)") {
		t.Fatalf("expected method labels:\n%s", out)
	}
}

func TestRenderCurvesSkipsTraining(t *testing.T) {
	trials := []model.TrialSummary{
		trial(model.Mouse, true, 100, 3, 900, 45),
	}
	var b strings.Builder
	if err := RenderCurvesWithSize(&b, trials, 2, 60, 5); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("training-only input must render nothing, got %q", b.String())
	}

	trials = append(trials,
		trial(model.Mouse, false, 120, 3, 800, 40),
		trial(model.Mouse, false, 130, 3, 700, 35),
	)
	if err := RenderCurvesWithSize(&b, trials, 2, 60, 5); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "Learning Curves") {
		t.Fatalf("expected plot title:\n%s", out)
	}
	if !strings.Contains(out, "Movement time (s)") || !strings.Contains(out, "Throughput (bits/s)") {
		t.Fatalf("expected series ranges:\n%s", out)
	}
}
