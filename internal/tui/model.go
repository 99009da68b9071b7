// Package tui provides the Bubble Tea capture interface: a settings
// questionnaire followed by the point-and-click arena.
package tui

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/trailcap/internal/model"
	"github.com/verte-zerg/trailcap/internal/session"
	"github.com/verte-zerg/trailcap/internal/store"
	"github.com/verte-zerg/trailcap/internal/trial"
)

type phase int

const (
	phaseForm phase = iota
	phaseArena
)

// arenaTopRows and arenaBottomRows frame the arena with the status
// line above and the prompt plus help lines below.
const (
	arenaTopRows    = 1
	arenaBottomRows = 2
)

type delayFiredMsg struct {
	seq uint64
	at  time.Time
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Cycle  key.Binding
	Toggle key.Binding
	Submit key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "previous")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next")),
		Cycle:  key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "change")),
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Cycle, k.Submit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Cycle, k.Toggle}, {k.Submit, k.Quit}}
}

// Config wires the capture UI.
type Config struct {
	Settings model.ExperimentSettings
	LastUser *model.UserSettings

	// NewMachine builds the trial scheduler once the questionnaire is
	// answered. spanX and spanY are the usable arena extents from the
	// origin, for sizing the target distance draw.
	NewMachine func(user model.UserSettings, spanX, spanY float64) (*trial.Machine, error)
}

// Model implements the Bubble Tea capture UI.
type Model struct {
	cfg   Config
	store *store.Store

	phase phase
	form  *form
	user  model.UserSettings

	machine *trial.Machine
	ar      arena

	width  int
	height int

	prompt string
	status string

	showTarget   bool
	targetX      float64
	targetY      float64
	targetRadius int

	notices []trial.Notify

	result session.Result
	err    error

	keys keyMap
	help help.Model
}

var (
	promptStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	noticeTitleStyle = lipgloss.NewStyle().Bold(true)
	noticeBoxStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2)
	noticeHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a capture UI model. The store may be nil; the
// journal is then skipped.
func NewModel(cfg Config, st *store.Store) *Model {
	return &Model{
		cfg:   cfg,
		store: st,
		form:  newForm(cfg.LastUser),
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
}

// Result returns the trials completed during this run.
func (m *Model) Result() session.Result { return m.result }

// User returns the submitted questionnaire answers.
func (m *Model) User() (model.UserSettings, bool) {
	return m.user, m.phase == phaseArena
}

// Err returns the error that aborted the UI, if any.
func (m *Model) Err() error { return m.err }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ar = newArena(msg.Width, m.arenaHeight())
		if m.machine != nil {
			m.machine.SetScreen(msg.Width, msg.Height)
		}
		return m, nil
	case delayFiredMsg:
		if m.machine == nil {
			return m, nil
		}
		return m, m.apply(m.machine.Handle(trial.DelayElapsed{Seq: msg.seq, At: msg.at}))
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if len(m.notices) > 0 {
		// Any key dismisses the current notice.
		m.notices = m.notices[1:]
		return m, nil
	}
	if m.phase != phaseForm {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.form.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.form.moveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		m.form.toggle()
	case key.Matches(msg, m.keys.Cycle):
		if msg.String() == "left" {
			m.form.cycle(-1)
		} else {
			m.form.cycle(1)
		}
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	}
	return m, nil
}

func (m *Model) submitForm() (tea.Model, tea.Cmd) {
	user, ok := m.form.submit()
	if !ok {
		return m, nil
	}
	spanX, spanY := m.ar.span()
	machine, err := m.cfg.NewMachine(user, spanX, spanY)
	if err != nil {
		m.err = fmt.Errorf("failed to set up trial scheduler: %w", err)
		return m, tea.Quit
	}
	m.user = user
	m.machine = machine
	m.machine.SetScreen(m.width, m.height)
	m.phase = phaseArena
	return m, m.apply(m.machine.Start())
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.phase != phaseArena || m.machine == nil || len(m.notices) > 0 {
		return m, nil
	}
	x, y := m.ar.toArena(msg.X, msg.Y-arenaTopRows)
	now := time.Now()
	switch {
	case msg.Action == tea.MouseActionMotion:
		return m, m.apply(m.machine.Handle(trial.PointerMoved{X: x, Y: y, At: now}))
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return m, m.apply(m.machine.Handle(trial.Clicked{X: x, Y: y, At: now}))
	default:
		return m, nil
	}
}

func (m *Model) apply(effects []trial.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case trial.ScheduleStart:
			seq := e.Seq
			cmds = append(cmds, tea.Tick(e.Delay, func(t time.Time) tea.Msg {
				return delayFiredMsg{seq: seq, at: t}
			}))
		case trial.CancelStart:
			// Tick timers cannot be stopped; the machine drops the
			// stale fire by sequence number.
		case trial.ShowTarget:
			m.showTarget = true
			m.targetX = e.X
			m.targetY = e.Y
			m.targetRadius = e.Radius
		case trial.HideTarget:
			m.showTarget = false
		case trial.SetPrompt:
			m.prompt = e.Text
		case trial.SetStatus:
			m.status = e.Text
		case trial.Notify:
			m.notices = append(m.notices, e)
		case trial.TrialDone:
			m.recordTrial(e)
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) recordTrial(done trial.TrialDone) {
	m.result.Paths = append(m.result.Paths, done.Path)
	m.result.Records = append(m.result.Records, done.Record)
	if done.InterpErr != nil {
		logErrf("failed to interpolate trial %d: %v\n", done.Record.Trial, done.InterpErr)
	} else {
		m.result.Interpolated = append(m.result.Interpolated, done.Interpolated)
	}

	if m.store == nil {
		return
	}
	rec := done.Record
	durationMs := int64(0)
	if n := len(done.Path); n > 0 {
		durationMs = int64(math.Round(done.Path[n-1].T * 1000))
	}
	summary := model.TrialSummary{
		Trial:               rec.Trial,
		TrialForInputMethod: rec.TrialForInputMethod,
		InputMethod:         rec.User.InputMethod,
		Training:            rec.Trial < m.cfg.Settings.TrainingTrials,
		TargetX:             rec.TargetX,
		TargetY:             rec.TargetY,
		TargetRadius:        rec.TargetRadius,
		TargetDistance:      math.Hypot(float64(rec.TargetX), float64(rec.TargetY)),
		DelayMs:             int64(math.Round(rec.Delay * 1000)),
		DurationMs:          durationMs,
		SampleCount:         len(done.Path),
		EndedAt:             time.Now(),
	}
	if _, err := m.store.InsertTrial(context.Background(), summary); err != nil {
		logErrf("failed to journal trial %d: %v\n", rec.Trial, err)
	}
}

func (m *Model) arenaHeight() int {
	h := m.height - arenaTopRows - arenaBottomRows
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if len(m.notices) > 0 {
		return m.viewNotice(m.notices[0])
	}
	if m.phase == phaseForm {
		return m.viewForm()
	}
	return m.viewArena()
}

func (m *Model) viewForm() string {
	content := m.form.render()
	footer := m.help.View(m.keys)
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) viewArena() string {
	status := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, statusStyle.Render(m.status))
	grid := m.ar.render(m.showTarget, m.targetX, m.targetY, m.targetRadius)
	prompt := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, promptStyle.Render(m.prompt))
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.help.View(m.keys))
	return status + "\n" + grid + "\n" + prompt + "\n" + footer
}

func (m *Model) viewNotice(n trial.Notify) string {
	content := noticeTitleStyle.Render(n.Title) + "\n\n" + n.Text + "\n\n" +
		noticeHintStyle.Render("Press any key to continue")
	box := noticeBoxStyle.Width(min(60, m.width-4)).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
