// Package model defines shared data structures.
package model

import "time"

// InputMethod identifies the pointing device used for a trial.
type InputMethod int

// Input method codes as persisted in the properties file.
const (
	Trackpad InputMethod = 0
	Mouse    InputMethod = 1
)

// String returns a human-readable device name.
func (m InputMethod) String() string {
	if m == Mouse {
		return "mouse"
	}
	return "trackpad"
}

// Sample is one timestamped pointer position, relative to the home
// marker with the y axis pointing up.
type Sample struct {
	Trial int
	T     float64
	X     float64
	Y     float64
}

// Path is the ordered sample sequence of a single trial. The first
// sample has T == 0, the last one is the click position.
type Path []Sample

// InterpolatedPath is a Path resampled onto a uniform millisecond grid.
type InterpolatedPath []Sample

// UserSettings holds the answers from the settings form. Optional
// legacy fields default to -1 when absent in older data.
type UserSettings struct {
	UseTueLaptop        int
	InputMethod         InputMethod
	MouseSpeed          int
	MouseAccuracy       int
	TrackpadSpeedSet    int
	RightHanded         int
	RightMouseHanded    int
	RightTrackpadHanded int
	Major               string
	Gender              int
}

// SystemSettings holds the best-effort OS mouse/touchpad probe result.
// Numeric fields are -1 when the value could not be read.
type SystemSettings struct {
	TouchpadSpeed     int
	TouchpadHonor     int
	MouseSpeedRec     int
	MouseThreshold1   int
	MouseThreshold2   int
	MouseAcceleration int
	Platform          string
	PlatformVersion   string
	ScreenWidth       int
	ScreenHeight      int
}

// TrialRecord is the per-trial metadata row.
type TrialRecord struct {
	Trial               int
	TrialForInputMethod int
	User                UserSettings
	System              SystemSettings
	TargetX             int
	TargetY             int
	TargetRadius        int
	Delay               float64
}

// CollectionStatus summarizes prior sessions, reconstructed once at
// startup from the persisted files.
type CollectionStatus struct {
	MouseCollected    int
	TrackpadCollected int
	LastMouseTrial    int
	LastTrackpadTrial int
	LastTrial         int
}

// FreshStatus returns the status of a session without any history.
func FreshStatus() CollectionStatus {
	return CollectionStatus{
		LastMouseTrial:    -1,
		LastTrackpadTrial: -1,
		LastTrial:         -1,
	}
}

// ExperimentSettings holds the retention and training thresholds.
type ExperimentSettings struct {
	MaxPaths       int
	TrainingTrials int
}

// TrialSummary is one journal row for the stats UI.
type TrialSummary struct {
	ID                  int64
	Trial               int
	TrialForInputMethod int
	InputMethod         InputMethod
	Training            bool
	TargetX             int
	TargetY             int
	TargetRadius        int
	TargetDistance      float64
	DelayMs             int64
	DurationMs          int64
	SampleCount         int
	EndedAt             time.Time
}

// StatsConfig defines filters for the stats UI.
type StatsConfig struct {
	InputMethod *InputMethod
	Since       *time.Time
	Last        int
	CurveWindow int
}
