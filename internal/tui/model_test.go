package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/trailcap/internal/model"
	"github.com/verte-zerg/trailcap/internal/trial"
)

type fixedInt int

func (f fixedInt) Next() int { return int(f) }

type fixedFloat float64

func (f fixedFloat) Next() float64 { return float64(f) }

type stubProbe struct{}

func (stubProbe) Read() model.SystemSettings {
	return model.SystemSettings{Platform: "Linux"}
}

func testModel(t *testing.T) *Model {
	t.Helper()
	cfg := Config{
		Settings: model.ExperimentSettings{MaxPaths: 15, TrainingTrials: 0},
		NewMachine: func(user model.UserSettings, spanX, spanY float64) (*trial.Machine, error) {
			return trial.New(trial.Config{
				Settings: model.ExperimentSettings{MaxPaths: 15, TrainingTrials: 0},
				User:     user,
				Status:   model.FreshStatus(),
				Samplers: trial.Samplers{
					Orientation: fixedFloat(0),
					Distance:    fixedFloat(10),
					Radius:      fixedInt(2),
					Delay:       fixedInt(2500),
				},
				Probe:    stubProbe{},
				HomeHalf: HomeHalf,
			})
		},
	}
	m := NewModel(cfg, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func submitAnswers(t *testing.T, m *Model) {
	t.Helper()
	f := m.form
	f.fields[fieldMajor].value = 12
	f.fields[fieldGender].value = 0
	f.fields[fieldHanded].value = 1
	f.fields[fieldTrackpadHand].value = 1
	f.fields[fieldMouseHand].value = 1
	f.fields[fieldLaptop].value = 0
	f.fields[fieldInputMethod].value = 1
	m.submitForm()
	if _, ok := m.User(); !ok {
		t.Fatal("expected the arena phase after submit")
	}
	if m.prompt == "" {
		t.Fatal("submitting must set the initial prompt")
	}
}

func TestFormPhaseBlocksMouse(t *testing.T) {
	m := testModel(t)
	_, cmd := m.handleMouse(tea.MouseMsg{X: 40, Y: 12, Action: tea.MouseActionMotion})
	if cmd != nil {
		t.Fatal("mouse input must be ignored during the questionnaire")
	}
}

func TestArenaMouseDrivesMachine(t *testing.T) {
	m := testModel(t)
	submitAnswers(t, m)

	// Move onto the home marker: the center cell of the arena, which
	// starts one row below the status line.
	col := m.ar.cx
	row := m.ar.cy + arenaTopRows
	_, cmd := m.handleMouse(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion})
	if cmd == nil {
		t.Fatal("moving onto the marker must schedule the start timer")
	}
	if m.machine.State() != trial.StateArmed {
		t.Fatalf("expected armed machine, got %v", m.machine.State())
	}
}

func TestFullTrialThroughUI(t *testing.T) {
	m := testModel(t)
	submitAnswers(t, m)

	col := m.ar.cx
	row := m.ar.cy + arenaTopRows
	m.handleMouse(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion})

	seq := m.machine.Seq()
	m.Update(delayFiredMsg{seq: seq, at: time.Now()})
	if !m.showTarget {
		t.Fatal("target must be visible after the delay fires")
	}
	if m.targetX != 10 || m.targetY != 0 || m.targetRadius != 2 {
		t.Fatalf("unexpected target placement: (%v, %v) r=%d", m.targetX, m.targetY, m.targetRadius)
	}

	// Click the target: 10 arena units right of the center column.
	m.handleMouse(tea.MouseMsg{X: col + 10, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.showTarget {
		t.Fatal("target must disappear after the hit")
	}
	res := m.Result()
	if len(res.Records) != 1 || len(res.Paths) != 1 {
		t.Fatalf("expected one recorded trial, got %d records", len(res.Records))
	}
	if res.Records[0].TargetX != 10 {
		t.Fatalf("unexpected recorded target: %+v", res.Records[0])
	}
}

func TestNoticeSwallowsPointerEvents(t *testing.T) {
	m := testModel(t)
	submitAnswers(t, m)
	m.notices = append(m.notices, trial.Notify{Title: "t", Text: "x"})

	col := m.ar.cx
	row := m.ar.cy + arenaTopRows
	m.handleMouse(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion})
	if m.machine.State() != trial.StateIdle {
		t.Fatal("pointer events must be swallowed while a notice is open")
	}

	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if len(m.notices) != 0 {
		t.Fatal("any key must dismiss the notice")
	}
}

func TestStaleTimerAfterLeaveIsIgnored(t *testing.T) {
	m := testModel(t)
	submitAnswers(t, m)

	col := m.ar.cx
	row := m.ar.cy + arenaTopRows
	m.handleMouse(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion})
	seq := m.machine.Seq()

	// Leave the marker, then let the uncancelable timer fire anyway.
	m.handleMouse(tea.MouseMsg{X: col + 20, Y: row, Action: tea.MouseActionMotion})
	m.Update(delayFiredMsg{seq: seq, at: time.Now()})
	if m.showTarget {
		t.Fatal("a canceled trial must not show a target")
	}
	if m.machine.State() != trial.StateIdle {
		t.Fatalf("expected idle machine, got %v", m.machine.State())
	}
}
