// Package session merges a capture session with history and persists it.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/verte-zerg/trailcap/internal/history"
	"github.com/verte-zerg/trailcap/internal/model"
	"github.com/verte-zerg/trailcap/internal/record"
)

// Result is the outcome of one capture session.
type Result struct {
	Paths        []model.Path
	Records      []model.TrialRecord
	Interpolated []model.InterpolatedPath
}

// Empty reports whether the session completed no trials.
func (r Result) Empty() bool {
	return len(r.Records) == 0
}

// Aggregate concatenates the session with history and applies the
// per-input-method retention window: for each method, only the
// max-paths highest non-training trial numbers are kept. Training
// trials recorded in the current session are always kept. Running
// Aggregate again over its own output yields the same rows.
func Aggregate(res Result, hist history.Snapshot, settings model.ExperimentSettings) ([]model.Sample, []model.TrialRecord) {
	var samples []model.Sample
	var recs []model.TrialRecord
	if hist.Complete() {
		samples = append(samples, hist.Samples...)
		recs = append(recs, hist.Records...)
	}
	sessionTraining := make(map[int]bool)
	for _, rec := range res.Records {
		if rec.Trial < settings.TrainingTrials {
			sessionTraining[rec.Trial] = true
		}
		recs = append(recs, rec)
	}
	for _, p := range res.Paths {
		samples = append(samples, p...)
	}

	keep := retainedTrials(recs, settings)
	for trial := range sessionTraining {
		keep[trial] = true
	}

	outSamples := samples[:0:0]
	for _, s := range samples {
		if keep[s.Trial] {
			outSamples = append(outSamples, s)
		}
	}
	outRecs := recs[:0:0]
	for _, rec := range recs {
		if keep[rec.Trial] {
			outRecs = append(outRecs, rec)
		}
	}
	return outSamples, outRecs
}

// retainedTrials selects, per input method, the max-paths highest
// trial numbers at or past the training threshold.
func retainedTrials(recs []model.TrialRecord, settings model.ExperimentSettings) map[int]bool {
	keep := make(map[int]bool)
	for _, method := range []model.InputMethod{model.Trackpad, model.Mouse} {
		var trials []int
		for _, rec := range recs {
			if rec.User.InputMethod == method && rec.Trial >= settings.TrainingTrials {
				trials = append(trials, rec.Trial)
			}
		}
		sort.Sort(sort.Reverse(sort.IntSlice(trials)))
		if len(trials) > settings.MaxPaths {
			trials = trials[:settings.MaxPaths]
		}
		for _, trial := range trials {
			keep[trial] = true
		}
	}
	return keep
}

// Write replaces both persisted files with the aggregated rows. The
// files are written atomically so a crash never leaves a half-written
// history behind.
func Write(pathsFile, propsFile string, samples []model.Sample, recs []model.TrialRecord) error {
	if err := writeAtomic(pathsFile, func(f *os.File) error {
		return record.WritePaths(f, samples)
	}); err != nil {
		return fmt.Errorf("failed to write paths file: %w", err)
	}
	if err := writeAtomic(propsFile, func(f *os.File) error {
		return record.WriteRecords(f, recs)
	}); err != nil {
		return fmt.Errorf("failed to write properties file: %w", err)
	}
	return nil
}

// WriteInterpolated exports the session's interpolated paths.
func WriteInterpolated(path string, paths []model.InterpolatedPath) error {
	var samples []model.Sample
	for _, p := range paths {
		samples = append(samples, p...)
	}
	if err := writeAtomic(path, func(f *os.File) error {
		return record.WritePaths(f, samples)
	}); err != nil {
		return fmt.Errorf("failed to write interpolated paths: %w", err)
	}
	return nil
}

func writeAtomic(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := write(tmpFile); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
