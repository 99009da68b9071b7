// Package trial implements the trial-scheduling state machine.
//
// The machine is decoupled from any event loop: the host feeds pointer
// and timer events in and applies the returned effects (render the
// target, schedule or drop the start timer, show messages). All state
// lives here and is only mutated by Handle, one event at a time.
package trial

import (
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/trailcap/internal/interp"
	"github.com/verte-zerg/trailcap/internal/model"
)

// State of the scheduler.
type State int

// Scheduler states. A trial is armed while the start timer is pending
// and collecting from the moment the target appears until the hit.
const (
	StateIdle State = iota
	StateArmed
	StateCollecting
)

// IntSampler yields integer draws.
type IntSampler interface{ Next() int }

// FloatSampler yields continuous draws.
type FloatSampler interface{ Next() float64 }

// SystemReader reads system mouse settings at trial completion.
type SystemReader interface {
	Read() model.SystemSettings
}

// Samplers parameterize each trial.
type Samplers struct {
	Orientation FloatSampler // target angle, radians
	Distance    FloatSampler // target distance from home
	Radius      IntSampler   // target radius
	Delay       IntSampler   // pre-trial delay, milliseconds
}

// Config wires a machine.
type Config struct {
	Settings model.ExperimentSettings
	User     model.UserSettings
	Status   model.CollectionStatus
	Samplers Samplers
	Probe    SystemReader

	// HomeHalf is the half-extent of the square home hit region.
	HomeHalf float64
}

// Machine is the trial scheduler. Not safe for concurrent use; the
// host event loop must deliver one event at a time.
type Machine struct {
	cfg Config

	state   State
	armSeq  uint64
	armedAt time.Time

	trial        int
	methodTrial  int
	mouseDone    int
	trackpadDone int

	buffer    model.Path
	startedAt time.Time

	targetX, targetY float64
	targetRadius     int

	delaySeconds float64

	pointerX, pointerY float64
	pointerKnown       bool

	screenW, screenH int
}

// User-facing texts, kept in one place so the host renders exactly
// what the machine decided.
const (
	promptMoveHome  = "Move your mouse to the red square"
	promptWait      = "Wait for the blue dot to appear..."
	promptClick     = "Click the blue dot!"
	promptKeepOn    = "Keep your mouse on the red square to start the experiment"
	promptBackHome  = "Move your mouse back to the red square"
	promptFirstMove = "First move your mouse to the red square to start an experiment"
	promptMiss      = "Miss!"

	statusTraining     = "Let's have some training rounds first"
	statusTrainingDone = "Training completed! Now let's collect data"
)

// New builds a machine continuing from the given collection status.
func New(cfg Config) (*Machine, error) {
	if cfg.Samplers.Orientation == nil || cfg.Samplers.Distance == nil ||
		cfg.Samplers.Radius == nil || cfg.Samplers.Delay == nil {
		return nil, fmt.Errorf("trial machine needs all four samplers")
	}
	if cfg.Probe == nil {
		return nil, fmt.Errorf("trial machine needs a system reader")
	}
	if cfg.HomeHalf <= 0 {
		cfg.HomeHalf = 1
	}
	m := &Machine{
		cfg:          cfg,
		trial:        cfg.Status.LastTrial + 1,
		mouseDone:    cfg.Status.MouseCollected,
		trackpadDone: cfg.Status.TrackpadCollected,
	}
	if cfg.User.InputMethod == model.Mouse {
		m.methodTrial = cfg.Status.LastMouseTrial + 1
	} else {
		m.methodTrial = cfg.Status.LastTrackpadTrial + 1
	}
	return m, nil
}

// SetScreen records the arena size snapshot written into each trial's
// system settings.
func (m *Machine) SetScreen(w, h int) {
	m.screenW = w
	m.screenH = h
}

// State returns the current scheduler state.
func (m *Machine) State() State { return m.state }

// Trial returns the next trial number to be recorded.
func (m *Machine) Trial() int { return m.trial }

// Seq returns the current arming sequence number.
func (m *Machine) Seq() uint64 { return m.armSeq }

// Start returns the effects that set up the initial view.
func (m *Machine) Start() []Effect {
	status := m.counterText()
	if m.trial <= m.cfg.Settings.TrainingTrials {
		status = statusTraining
	}
	return []Effect{SetPrompt{promptMoveHome}, SetStatus{status}}
}

// Handle advances the machine by one event.
func (m *Machine) Handle(ev Event) []Effect {
	switch ev := ev.(type) {
	case PointerMoved:
		return m.pointerMoved(ev)
	case Clicked:
		return m.clicked(ev)
	case DelayElapsed:
		return m.delayElapsed(ev)
	default:
		return nil
	}
}

func (m *Machine) pointerMoved(ev PointerMoved) []Effect {
	m.pointerX, m.pointerY = ev.X, ev.Y
	m.pointerKnown = true

	var effects []Effect
	onHome := m.onHome(ev.X, ev.Y)

	if m.state == StateIdle && onHome {
		delayMs := m.cfg.Samplers.Delay.Next()
		m.armSeq++
		m.armedAt = ev.At
		m.state = StateArmed
		effects = append(effects, ScheduleStart{
			Delay: time.Duration(delayMs) * time.Millisecond,
			Seq:   m.armSeq,
		})
		switch {
		case m.trial < m.cfg.Settings.TrainingTrials:
			effects = append(effects,
				SetStatus{fmt.Sprintf("Training: %d/%d", m.trial+1, m.cfg.Settings.TrainingTrials)},
				SetPrompt{promptWait})
		case m.trial == m.cfg.Settings.TrainingTrials:
			effects = append(effects, SetStatus{m.counterText()})
		default:
			effects = append(effects, SetPrompt{""})
		}
		return effects
	}

	if m.state == StateArmed && !onHome {
		effects = append(effects, CancelStart{Seq: m.armSeq}, SetPrompt{promptKeepOn})
		m.armSeq++
		m.state = StateIdle
		return effects
	}

	if m.state == StateCollecting {
		m.buffer = append(m.buffer, model.Sample{
			Trial: m.trial,
			T:     ev.At.Sub(m.startedAt).Seconds(),
			X:     ev.X,
			Y:     ev.Y,
		})
	}
	return effects
}

func (m *Machine) delayElapsed(ev DelayElapsed) []Effect {
	if m.state != StateArmed || ev.Seq != m.armSeq {
		// Stale or canceled timer.
		return nil
	}

	// The pointer-leave cancellation is best-effort; re-verify the
	// pointer is still on the home marker before starting.
	if !m.pointerKnown || !m.onHome(m.pointerX, m.pointerY) {
		m.armSeq++
		m.state = StateIdle
		return []Effect{SetPrompt{promptKeepOn}}
	}

	// The recorded delay is the measured time since arming, not the
	// drawn value, so timer jitter ends up in the metadata.
	m.delaySeconds = ev.At.Sub(m.armedAt).Seconds()

	r := m.cfg.Samplers.Distance.Next()
	phi := m.cfg.Samplers.Orientation.Next()
	m.targetX = r * math.Cos(phi)
	m.targetY = r * math.Sin(phi)
	m.targetRadius = m.cfg.Samplers.Radius.Next()

	m.startedAt = ev.At
	m.buffer = model.Path{{
		Trial: m.trial,
		T:     0,
		X:     m.pointerX,
		Y:     m.pointerY,
	}}
	m.state = StateCollecting

	effects := []Effect{ShowTarget{X: m.targetX, Y: m.targetY, Radius: m.targetRadius}}
	if m.trial <= m.cfg.Settings.TrainingTrials {
		effects = append(effects, SetPrompt{promptClick})
	} else {
		effects = append(effects, SetPrompt{""})
	}
	return effects
}

func (m *Machine) clicked(ev Clicked) []Effect {
	if m.state == StateCollecting && m.onTarget(ev.X, ev.Y) {
		return m.completeTrial(ev)
	}
	switch m.state {
	case StateIdle:
		return []Effect{SetPrompt{promptFirstMove}}
	case StateCollecting:
		return []Effect{SetPrompt{promptMiss}}
	default:
		// Armed with a pending timer; stay quiet.
		return nil
	}
}

func (m *Machine) completeTrial(ev Clicked) []Effect {
	m.buffer = append(m.buffer, model.Sample{
		Trial: m.trial,
		T:     ev.At.Sub(m.startedAt).Seconds(),
		X:     ev.X,
		Y:     ev.Y,
	})
	path := m.buffer
	m.buffer = nil

	interpolated, interpErr := interp.Resample(path)

	system := m.cfg.Probe.Read()
	system.ScreenWidth = m.screenW
	system.ScreenHeight = m.screenH

	record := model.TrialRecord{
		Trial:               m.trial,
		TrialForInputMethod: m.methodTrial,
		User:                m.cfg.User,
		System:              system,
		TargetX:             int(math.Round(m.targetX)),
		TargetY:             int(math.Round(m.targetY)),
		TargetRadius:        m.targetRadius,
		Delay:               m.delaySeconds,
	}

	effects := []Effect{
		HideTarget{},
		TrialDone{Path: path, Record: record, Interpolated: interpolated, InterpErr: interpErr},
		SetPrompt{promptBackHome},
	}

	m.trial++
	m.methodTrial++
	m.state = StateIdle
	m.armSeq++

	training := m.cfg.Settings.TrainingTrials
	switch {
	case m.trial > training:
		if m.cfg.User.InputMethod == model.Mouse {
			m.mouseDone++
		} else {
			m.trackpadDone++
		}
		effects = append(effects, SetStatus{m.counterText()})
		effects = append(effects, m.quotaNotices()...)
	case m.trial == training:
		effects = append(effects,
			SetStatus{statusTrainingDone},
			Notify{
				Title: "Training completed!",
				Text:  "Training completed! Now let's collect some data.",
			})
	}
	return effects
}

// quotaNotices fires exactly when the active method's counter first
// reaches the quota.
func (m *Machine) quotaNotices() []Effect {
	maxPaths := m.cfg.Settings.MaxPaths
	allDone := Notify{
		Title: "All done!",
		Text: "You have collected the required number of paths. " +
			"You can keep drawing paths, previously recorded paths will then be overwritten.",
	}
	if m.cfg.User.InputMethod == model.Trackpad && m.trackpadDone == maxPaths {
		if m.mouseDone < maxPaths {
			return []Effect{Notify{
				Title: "Trackpad paths finished",
				Text: "You have collected enough paths using a trackpad. " +
					"It would be helpful if you could restart the application and collect more paths with a mouse.",
			}}
		}
		return []Effect{allDone}
	}
	if m.cfg.User.InputMethod == model.Mouse && m.mouseDone == maxPaths {
		if m.trackpadDone < maxPaths {
			return []Effect{Notify{
				Title: "Mouse paths finished",
				Text: "You have collected enough paths using a mouse. " +
					"Please restart the application and collect some more paths with a trackpad.",
			}}
		}
		return []Effect{allDone}
	}
	return nil
}

func (m *Machine) counterText() string {
	maxPaths := m.cfg.Settings.MaxPaths
	return fmt.Sprintf("Paths collected:      Trackpad: %d/%d      Mouse: %d/%d",
		min(m.trackpadDone, maxPaths), maxPaths,
		min(m.mouseDone, maxPaths), maxPaths)
}

func (m *Machine) onHome(x, y float64) bool {
	return math.Abs(x) <= m.cfg.HomeHalf && math.Abs(y) <= m.cfg.HomeHalf
}

func (m *Machine) onTarget(x, y float64) bool {
	dx := x - m.targetX
	dy := y - m.targetY
	return dx*dx+dy*dy <= float64(m.targetRadius*m.targetRadius)
}
