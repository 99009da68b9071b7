// Package stats contains statistics calculations and reporting over
// the trial journal.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/trailcap/internal/model"
)

const sparkChars = " .:-=+*#%@"

// TrialMetrics computes movement time, sampling rate, Fitts' index of
// difficulty, and throughput for one trial. Throughput is zero when
// the trial has no measurable duration.
func TrialMetrics(t model.TrialSummary) (movementSec, samplesPerSec, difficulty, throughput float64) {
	movementSec = float64(t.DurationMs) / 1000.0
	if t.TargetRadius > 0 {
		difficulty = math.Log2(1 + t.TargetDistance/float64(2*t.TargetRadius))
	}
	if movementSec > 0 {
		samplesPerSec = float64(t.SampleCount) / movementSec
		throughput = difficulty / movementSec
	}
	return movementSec, samplesPerSec, difficulty, throughput
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary of the recorded trials.
func RenderSummary(w io.Writer, trials []model.TrialSummary) error {
	if len(trials) == 0 {
		_, err := fmt.Fprintln(w, "No trials found.")
		return err
	}
	var mouse, trackpad, training int
	var totalMT, totalRate, totalTP float64
	bestMT := math.Inf(1)
	measured := 0
	for _, t := range trials {
		if t.Training {
			training++
			continue
		}
		if t.InputMethod == model.Mouse {
			mouse++
		} else {
			trackpad++
		}
		mt, rate, _, tp := TrialMetrics(t)
		if mt <= 0 {
			continue
		}
		measured++
		totalMT += mt
		totalRate += rate
		totalTP += tp
		if mt < bestMT {
			bestMT = mt
		}
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Trials: %d (mouse %d, trackpad %d, training %d)\n",
		len(trials), mouse, trackpad, training); err != nil {
		return err
	}
	if measured > 0 {
		count := float64(measured)
		if _, err := fmt.Fprintf(w, "Avg movement time: %.3fs\n", totalMT/count); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Best movement time: %.3fs\n", bestMT); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Avg sampling rate: %.1f samples/s\n", totalRate/count); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Avg throughput: %.2f bits/s\n", totalTP/count); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints learning curves for movement time and throughput.
func RenderCurves(w io.Writer, trials []model.TrialSummary, window int) error {
	return RenderCurvesWithSize(w, trials, window, 0, 10)
}

// RenderCurvesWithSize prints learning curves sized to a given total
// width. Training trials are skipped; they measure nothing.
func RenderCurvesWithSize(w io.Writer, trials []model.TrialSummary, window, totalWidth, height int) error {
	var mts, tps []float64
	for _, t := range trials {
		if t.Training {
			continue
		}
		mt, _, _, tp := TrialMetrics(t)
		if mt <= 0 {
			continue
		}
		mts = append(mts, mt)
		tps = append(tps, tp)
	}
	if len(mts) == 0 {
		return nil
	}
	mts = MovingAverage(mts, window)
	tps = MovingAverage(tps, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, "Learning Curves", []Series{
		{Name: "Movement time (s)", Values: mts},
		{Name: "Throughput (bits/s)", Values: tps},
	}, width, height)
}

// RenderTrialTable prints the most recent trials, newest last.
func RenderTrialTable(w io.Writer, trials []model.TrialSummary) error {
	if len(trials) == 0 {
		_, err := fmt.Fprintln(w, "No trials found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Trials"); err != nil {
		return err
	}
	headers := []string{"Trial", "Method", "Distance", "Radius", "ID", "Time (s)", "Samples/s"}
	rows := make([][]string, 0, len(trials))
	for _, t := range trials {
		mt, rate, id, _ := TrialMetrics(t)
		method := t.InputMethod.String()
		if t.Training {
			method += " (training)"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.Trial),
			method,
			fmt.Sprintf("%.0f", t.TargetDistance),
			fmt.Sprintf("%d", t.TargetRadius),
			fmt.Sprintf("%.2f", id),
			fmt.Sprintf("%.3f", mt),
			fmt.Sprintf("%.1f", rate),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
