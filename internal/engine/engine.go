package engine

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/simscope/internal/config"
	"github.com/san-kum/simscope/internal/input"
	"github.com/san-kum/simscope/internal/physics"
	"github.com/san-kum/simscope/internal/record"
)

const (
	// stepIdleSleep paces physics iterations that did no work, because
	// the sim has caught up with the clock or is paused.
	stepIdleSleep = time.Millisecond

	// backpressureYield is how long the physics loop backs off when
	// the render side has stalled.
	backpressureYield = 2 * time.Millisecond

	// uiPollInterval paces the input-only loop that takes over after
	// the render loop ends.
	uiPollInterval = 10 * time.Millisecond
)

// Engine composes the physics and UI state, the mode list and the
// window into a running viewer session.
type Engine struct {
	log *logrus.Logger
	cfg *config.Config

	phys *PhysicsState
	ui   *UIState

	window   Window
	dispatch *input.Dispatch

	// modes is fixed after construction; modeIdx is read and written
	// only under the physics lock.
	modes   []Mode
	modeIdx int

	// recorder and fatal belong to the render thread.
	recorder *record.Recorder
	fatal    error

	closeOnce sync.Once
}

// New builds an engine around an already-created window. On any
// construction failure the window is closed before the error returns.
func New(log *logrus.Logger, cfg *config.Config, model physics.Model, window Window, modes []Mode) (*Engine, error) {
	if model == nil {
		window.Close()
		return nil, errors.New("engine: model is required")
	}
	if len(modes) == 0 {
		window.Close()
		return nil, errors.New("engine: at least one mode is required")
	}

	e := &Engine{
		log:      log,
		cfg:      cfg,
		phys:     NewPhysicsState(model),
		ui:       NewUIState(cfg.Timing),
		window:   window,
		dispatch: input.NewDispatch(),
		modes:    modes,
	}

	e.dispatch.Register("viewer", e.standardBindings())

	e.phys.Lock()
	err := modes[0].Setup(e.phys)
	e.phys.Unlock()
	if err != nil {
		window.Close()
		return nil, fmt.Errorf("engine: mode %s setup: %w", modes[0].Name(), err)
	}
	e.dispatch.Register("mode", modes[0].Bindings(e))

	return e, nil
}

// Run drives the viewer until exit. The calling thread becomes the
// render thread; physics runs on its own goroutine. The window is
// closed exactly once on every path out.
func (e *Engine) Run() error {
	defer e.closeWindow()

	e.phys.Lock()
	e.phys.Timer.SetRate(e.ui.Rate())
	if !e.ui.Snapshot().Paused {
		e.phys.Timer.Start()
	}
	e.phys.Unlock()

	e.log.WithFields(logrus.Fields{
		"model": e.phys.Model.Name(),
		"mode":  e.modes[e.modeIdx].Name(),
	}).Info("viewer starting")

	done := make(chan error, 1)
	go func() { done <- e.physicsLoop() }()

	e.renderLoop()
	perr := e.uiLoop(done)

	return errors.Join(e.fatal, perr)
}

func (e *Engine) closeWindow() {
	e.closeOnce.Do(e.window.Close)
}

// physicsLoop advances the simulation against the virtual clock. On
// the way out, error or not, it forces the exit flag so the render
// loop cannot spin against a dead simulation.
func (e *Engine) physicsLoop() error {
	defer e.ui.ForceExit()

	last := time.Now()
	for {
		snap := e.ui.Snapshot()
		if snap.ShouldExit {
			return nil
		}

		if e.renderStalled(snap) {
			time.Sleep(backpressureYield)
			continue
		}

		simDelta, err := e.stepOnce(snap)
		if err != nil {
			e.log.WithError(err).Error("physics loop stopping")
			return err
		}

		now := time.Now()
		e.ui.ObserveRealtime(simDelta, now.Sub(last).Seconds())
		last = now

		if simDelta == 0 {
			time.Sleep(stepIdleSleep)
		}
	}
}

// renderStalled is the backpressure test: if the render thread has not
// presented a frame within one period of the slower of the configured
// floor and the detected refresh rate, physics yields instead of
// running further ahead.
func (e *Engine) renderStalled(snap UISnapshot) bool {
	rate := math.Min(e.cfg.Timing.MinRefreshRate, snap.RefreshRate)
	if rate <= 0 {
		return false
	}
	return time.Since(snap.LastRender).Seconds() > 1/rate
}

// stepOnce runs one iteration of the stepping policy under the physics
// lock: bookkeeping while paused, rewind while reversed and ahead of
// the clock, advance while behind it, otherwise nothing. It returns
// the simulated seconds consumed, negative when reversing.
func (e *Engine) stepOnce(snap UISnapshot) (float64, error) {
	e.phys.Lock()
	defer e.phys.Unlock()

	mode := e.modes[e.modeIdx]
	dt := e.phys.Model.Timestep()
	target := e.phys.Timer.Elapsed()

	switch {
	case snap.Paused:
		return 0, mode.PauseStep(e.phys)

	case snap.Reversed && e.phys.Elapsed > target && e.phys.Elapsed >= dt:
		ok, err := e.phys.ReverseStep(mode)
		if err != nil || !ok {
			return 0, err
		}
		return -dt, nil

	case !snap.Reversed && e.phys.Elapsed < target:
		if err := e.phys.ForwardStep(mode); err != nil {
			return 0, err
		}
		return dt, nil

	default:
		return 0, nil
	}
}

// renderLoop polls, composes and presents frames until an exit is
// requested. Fatal handler errors land in e.fatal; Run picks them up.
func (e *Engine) renderLoop() {
	defer e.ui.ForceExit()
	defer e.stopRecording()

	frameEvery := time.Second / time.Duration(e.cfg.Record.FPS)
	var lastCapture time.Time

	for {
		scene := e.composeScene()
		e.window.Render(scene)

		exit := e.ui.MarkRender(time.Now(), e.window.CloseRequested())

		if e.recorder != nil && time.Since(lastCapture) >= frameEvery {
			e.captureFrame()
			lastCapture = time.Now()
		}

		if exit || e.fatal != nil {
			return
		}
	}
}

// composeScene polls input and samples the model inside one physics
// critical section, then attaches the UI snapshot outside it.
func (e *Engine) composeScene() *Scene {
	e.phys.Lock()
	e.window.Poll(e.dispatch.Dispatch)

	m := e.phys.Model
	s := &Scene{
		Model:   m.Name(),
		Mode:    e.modes[e.modeIdx].Name(),
		Time:    m.Time(),
		Elapsed: e.phys.Elapsed,
		Target:  e.phys.Timer.Elapsed(),
		Energy:  m.Energy(),
		State:   m.State().Clone(),
		Bodies:  m.Bodies(),
		Perturb: e.phys.Perturb,
	}
	e.phys.Unlock()

	s.UI = e.ui.Snapshot()
	s.Bindings = e.dispatch.Active()
	if e.recorder != nil {
		s.Recording = true
		s.Recorded = e.recorder.Frames()
	}
	return s
}

// uiLoop keeps polling input after the render loop ends, so quit still
// works while the physics goroutine drains. It returns the physics
// loop's error.
func (e *Engine) uiLoop(done <-chan error) error {
	tick := time.NewTicker(uiPollInterval)
	defer tick.Stop()

	for {
		select {
		case perr := <-done:
			return perr
		case <-tick.C:
			e.phys.Lock()
			e.window.Poll(e.dispatch.Dispatch)
			e.phys.Unlock()
		}
	}
}

// switchMode hands control to the mode at idx: tear down the old mode,
// swap the handler set, update the index, set up the newcomer. Runs
// only inside input handlers, so the physics lock is held and no
// second switch can race this one. A setup failure aborts the switch
// with no rollback and ends the session.
func (e *Engine) switchMode(idx int) error {
	old := e.modes[e.modeIdx]
	if err := old.Teardown(e.phys); err != nil {
		return fmt.Errorf("engine: mode %s teardown: %w", old.Name(), err)
	}
	e.dispatch.Deregister("mode")

	e.modeIdx = idx

	next := e.modes[idx]
	if err := next.Setup(e.phys); err != nil {
		return fmt.Errorf("engine: mode %s setup: %w", next.Name(), err)
	}
	e.dispatch.Register("mode", next.Bindings(e))

	e.log.WithField("mode", next.Name()).Info("mode switched")
	return nil
}

// fail records a fatal render-thread error and requests exit.
func (e *Engine) fail(err error) {
	e.log.WithError(err).Error("fatal viewer error")
	if e.fatal == nil {
		e.fatal = err
	}
	e.ui.ForceExit()
}

// ToggleRecording starts or stops the frame encoder. Must be called on
// the render thread. Failures are logged and leave the session alone.
func (e *Engine) ToggleRecording() {
	if e.recorder != nil {
		e.stopRecording()
		return
	}
	w, h := e.window.Size()
	rec, err := record.Start(e.log, e.cfg.Record.Bin, e.cfg.Record.Path, w, h, e.cfg.Record.FPS)
	if err != nil {
		e.log.WithError(err).Warn("recording unavailable")
		return
	}
	e.recorder = rec
}

func (e *Engine) stopRecording() {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Close(); err != nil {
		e.log.WithError(err).Warn("encoder close failed")
	}
	e.recorder = nil
}

// captureFrame hands the current framebuffer to the recorder. A write
// failure disables recording; the session continues.
func (e *Engine) captureFrame() {
	px := e.window.CaptureFrame()
	if px == nil {
		return
	}
	if err := e.recorder.WriteFrame(px); err != nil {
		e.log.WithError(err).Warn("recording stopped")
		e.stopRecording()
	}
}
