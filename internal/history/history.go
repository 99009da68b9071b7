// Package history reconstructs collection state from prior sessions.
package history

import (
	"os"
	"sort"

	"github.com/verte-zerg/trailcap/internal/model"
	"github.com/verte-zerg/trailcap/internal/record"
)

// Snapshot is everything recovered from the persisted files. A zero
// Snapshot (plus FreshStatus) describes a fresh session.
type Snapshot struct {
	Samples []model.Sample
	Records []model.TrialRecord
	Status  model.CollectionStatus

	// LastUser is the most recently saved settings snapshot, used to
	// pre-populate the form. Nil when there is no usable history.
	LastUser *model.UserSettings

	HasPaths bool
	HasProps bool
}

// Complete reports whether both files were read, which is required for
// counter reconstruction and for merging during aggregation.
func (s Snapshot) Complete() bool {
	return s.HasPaths && s.HasProps
}

// Load reads the paths and properties files. Missing or unparsable
// files are not errors: the affected part degrades to empty and the
// condition is reported through warn.
func Load(pathsFile, propsFile string, settings model.ExperimentSettings, warn func(format string, args ...any)) Snapshot {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	snap := Snapshot{Status: model.FreshStatus()}

	if recs, ok := readRecords(propsFile, warn); ok {
		snap.Records = recs
		snap.HasProps = true
		for _, rec := range recs {
			if rec.Trial > snap.Status.LastTrial {
				snap.Status.LastTrial = rec.Trial
			}
		}
		if len(recs) > 0 {
			last := recs[len(recs)-1].User
			snap.LastUser = &last
		}
	}

	if samples, ok := readSamples(pathsFile, warn); ok {
		snap.Samples = samples
		snap.HasPaths = true
	}

	// Counters are only trustworthy when both files are present,
	// matching how sessions are persisted together.
	if snap.Complete() {
		fillMethodStatus(&snap.Status, snap.Records, settings)
	}
	return snap
}

func fillMethodStatus(status *model.CollectionStatus, recs []model.TrialRecord, settings model.ExperimentSettings) {
	for _, method := range []model.InputMethod{model.Trackpad, model.Mouse} {
		trials := make([]int, 0, len(recs))
		lastForMethod := -1
		for _, rec := range recs {
			if rec.User.InputMethod != method {
				continue
			}
			trials = append(trials, rec.Trial)
			if rec.TrialForInputMethod > lastForMethod {
				lastForMethod = rec.TrialForInputMethod
			}
		}
		// Only the most recent max-paths trial numbers are eligible,
		// and of those only the ones past the training threshold count.
		sort.Sort(sort.Reverse(sort.IntSlice(trials)))
		if len(trials) > settings.MaxPaths {
			trials = trials[:settings.MaxPaths]
		}
		collected := 0
		for _, trial := range trials {
			if trial >= settings.TrainingTrials {
				collected++
			}
		}
		if method == model.Mouse {
			status.MouseCollected = collected
			status.LastMouseTrial = lastForMethod
		} else {
			status.TrackpadCollected = collected
			status.LastTrackpadTrial = lastForMethod
		}
	}
}

func readRecords(path string, warn func(format string, args ...any)) ([]model.TrialRecord, bool) {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			warn("failed to open properties file: %v\n", err)
		}
		return nil, false
	}
	defer closeQuietly(f)
	recs, err := record.ReadRecords(f)
	if err != nil {
		warn("ignoring unreadable properties file %s: %v\n", path, err)
		return nil, false
	}
	return recs, true
}

func readSamples(path string, warn func(format string, args ...any)) ([]model.Sample, bool) {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			warn("failed to open paths file: %v\n", err)
		}
		return nil, false
	}
	defer closeQuietly(f)
	samples, err := record.ReadPaths(f)
	if err != nil {
		warn("ignoring unreadable paths file %s: %v\n", path, err)
		return nil, false
	}
	return samples, true
}

func closeQuietly(f *os.File) {
	if err := f.Close(); err != nil {
		// Best-effort close of a read-only file.
		_ = err
	}
}
