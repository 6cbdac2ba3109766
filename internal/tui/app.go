// Package tui is the terminal viewer. One goroutine owns the model, the
// virtual clock decides how far it may step forward or backward, and a
// bounded history ring makes the backward steps possible. Same keys as
// the windowed viewer where they apply.
package tui

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/simscope/internal/clock"
	"github.com/san-kum/simscope/internal/config"
	"github.com/san-kum/simscope/internal/dynamo"
	"github.com/san-kum/simscope/internal/physics"
	"github.com/san-kum/simscope/internal/trajectory"
)

const (
	canvasWidth   = 80
	canvasHeight  = 24
	energyHistory = 240

	// maxStepsPerTick bounds the catch-up work per frame so extreme
	// speed factors degrade to slow motion instead of freezing the UI.
	maxStepsPerTick = 400
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

type point struct{ x, y int }

type App struct {
	model   physics.Model
	timer   *clock.RateTimer
	history *trajectory.Ring
	elapsed float64

	paused      bool
	reversed    bool
	speedMode   bool
	speedFactor float64
	showHelp    bool

	fps    int
	energy []float64
	trail  []point
	canvas *Canvas

	paramKeys  []string
	initParams map[string]float64
	paramSel   int

	err error
}

func newApp(m physics.Model, cfg *config.Config) *App {
	a := &App{
		model:       m,
		timer:       clock.New(),
		history:     trajectory.NewRing(cfg.Timing.HistorySteps),
		paused:      cfg.Timing.StartPaused,
		speedFactor: cfg.Timing.SpeedFactor,
		fps:         cfg.Timing.TargetFPS,
		canvas:      NewCanvas(canvasWidth, canvasHeight),
		energy:      make([]float64, 0, energyHistory),
		initParams:  make(map[string]float64),
	}
	if c, ok := m.(dynamo.Configurable); ok {
		for k, v := range c.GetParams() {
			a.initParams[k] = v
			a.paramKeys = append(a.paramKeys, k)
		}
		sort.Strings(a.paramKeys)
	}
	a.timer.SetRate(a.rate())
	if !a.paused {
		a.timer.Start()
	}
	return a
}

// Run blocks until the viewer exits and returns the first step error,
// if any.
func Run(m physics.Model, cfg *config.Config) error {
	final, err := tea.NewProgram(newApp(m, cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if a, ok := final.(*App); ok && a.err != nil {
		return a.err
	}
	return nil
}

func (a *App) Init() tea.Cmd { return a.tick() }

func (a *App) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(a.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tickMsg:
		if err := a.advance(); err != nil {
			a.err = err
			return a, tea.Quit
		}
		a.draw()
		return a, a.tick()
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return a, tea.Quit
	case " ":
		a.paused = !a.paused
		if a.paused {
			a.timer.Stop()
		} else {
			a.timer.Start()
		}
	case "b":
		a.reversed = !a.reversed
		a.timer.SetRate(a.rate())
	case "s":
		a.speedMode = !a.speedMode
		a.timer.SetRate(a.rate())
	case "=", "+":
		a.speedFactor *= 2
		a.timer.SetRate(a.rate())
	case "-", "_":
		a.speedFactor /= 2
		a.timer.SetRate(a.rate())
	case "[":
		a.pauseHard()
		if err := a.stepBack(); err != nil {
			a.err = err
			return a, tea.Quit
		}
	case "]":
		a.pauseHard()
		if err := a.stepForward(); err != nil {
			a.err = err
			return a, tea.Quit
		}
	case "r":
		a.restart()
	case "tab":
		if len(a.paramKeys) > 0 {
			a.paramSel = (a.paramSel + 1) % len(a.paramKeys)
		}
	case "up", "k":
		a.scaleParam(1.05)
	case "down", "j":
		a.scaleParam(0.95)
	case "h", "?":
		a.showHelp = !a.showHelp
	}
	return a, nil
}

// rate is the signed clock multiplier the current flags imply.
func (a *App) rate() float64 {
	r := 1.0
	if a.speedMode {
		r = a.speedFactor
	}
	if a.reversed {
		r = -r
	}
	return r
}

func (a *App) pauseHard() {
	if !a.paused {
		a.paused = true
		a.timer.Stop()
	}
}

// advance runs the model toward the virtual clock, forward or backward,
// one fixed timestep at a time.
func (a *App) advance() error {
	if a.paused {
		return nil
	}
	target := a.timer.Elapsed()
	for i := 0; i < maxStepsPerTick; i++ {
		dt := a.model.Timestep()
		switch {
		case a.reversed && a.elapsed > target && a.elapsed >= dt:
			if a.history.Len() == 0 {
				return nil
			}
			if err := a.stepBack(); err != nil {
				return err
			}
		case !a.reversed && a.elapsed < target:
			if err := a.stepForward(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (a *App) stepForward() error {
	a.history.Push(a.model.Time(), a.model.State())
	if err := a.model.Step(nil); err != nil {
		return err
	}
	a.elapsed += a.model.Timestep()
	a.energy = append(a.energy, a.model.Energy())
	if len(a.energy) > energyHistory {
		a.energy = a.energy[1:]
	}
	return nil
}

func (a *App) stepBack() error {
	_, x, ok := a.history.Pop()
	if !ok {
		return nil
	}
	if err := a.model.SetState(x); err != nil {
		return err
	}
	a.elapsed -= a.model.Timestep()
	if a.elapsed < 0 {
		a.elapsed = 0
	}
	if n := len(a.energy); n > 0 {
		a.energy = a.energy[:n-1]
	}
	return nil
}

func (a *App) restart() {
	a.model.Reset()
	if c, ok := a.model.(dynamo.Configurable); ok {
		for k, v := range a.initParams {
			_ = c.SetParam(k, v)
		}
	}
	a.timer.Reset()
	a.elapsed = 0
	a.history.Clear()
	a.energy = a.energy[:0]
	a.trail = a.trail[:0]
}

func (a *App) scaleParam(f float64) {
	c, ok := a.model.(dynamo.Configurable)
	if !ok || len(a.paramKeys) == 0 {
		return
	}
	key := a.paramKeys[a.paramSel]
	cur := c.GetParams()[key]
	if cur == 0 {
		cur = 0.01
	}
	_ = c.SetParam(key, cur*f)
}
