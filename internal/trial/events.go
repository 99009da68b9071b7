package trial

import (
	"time"

	"github.com/verte-zerg/trailcap/internal/model"
)

// Event is an input to the scheduler state machine. Coordinates are
// relative to the home marker, y axis up.
type Event interface{ isEvent() }

// PointerMoved reports a pointer motion sample.
type PointerMoved struct {
	X, Y float64
	At   time.Time
}

// Clicked reports a primary-button click.
type Clicked struct {
	X, Y float64
	At   time.Time
}

// DelayElapsed reports that a scheduled start timer fired. Seq ties it
// to the arming that scheduled it; stale sequences are ignored, which
// makes cancellation idempotent.
type DelayElapsed struct {
	Seq uint64
	At  time.Time
}

func (PointerMoved) isEvent() {}
func (Clicked) isEvent()      {}
func (DelayElapsed) isEvent() {}

// Effect is an output of the state machine, applied by the host event
// loop.
type Effect interface{ isEffect() }

// ScheduleStart asks the host to deliver DelayElapsed{Seq} after Delay.
type ScheduleStart struct {
	Delay time.Duration
	Seq   uint64
}

// CancelStart tells the host the pending timer for Seq is obsolete.
// Hosts that cannot cancel timers may ignore this; the machine drops
// stale DelayElapsed events itself.
type CancelStart struct {
	Seq uint64
}

// ShowTarget asks the host to render the target disk.
type ShowTarget struct {
	X, Y   float64
	Radius int
}

// HideTarget removes the target.
type HideTarget struct{}

// SetPrompt replaces the instruction line.
type SetPrompt struct {
	Text string
}

// SetStatus replaces the counter line.
type SetStatus struct {
	Text string
}

// Notify asks the host to show a blocking notice.
type Notify struct {
	Title string
	Text  string
}

// TrialDone carries one completed trial. InterpErr is set when the
// recorded path could not be resampled; the raw path and record are
// still valid.
type TrialDone struct {
	Path         model.Path
	Record       model.TrialRecord
	Interpolated model.InterpolatedPath
	InterpErr    error
}

func (ScheduleStart) isEffect() {}
func (CancelStart) isEffect()   {}
func (ShowTarget) isEffect()    {}
func (HideTarget) isEffect()    {}
func (SetPrompt) isEffect()     {}
func (SetStatus) isEffect()     {}
func (Notify) isEffect()        {}
func (TrialDone) isEffect()     {}
