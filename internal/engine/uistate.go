package engine

import (
	"sync"
	"time"

	"github.com/san-kum/simscope/internal/config"
)

// UIState holds the transient viewer flags and the smoothed loop
// metrics behind its own lock, independent from the physics lock. Both
// loops take brief critical sections here; nothing holds this lock
// while doing real work.
type UIState struct {
	mu sync.Mutex

	paused      bool
	reversed    bool
	speedMode   bool
	showHelp    bool
	shouldExit  bool
	speedFactor float64

	refreshRate   float64
	realtimeRate  float64
	refreshGamma  float64
	realtimeGamma float64
	lastRender    time.Time
}

// UISnapshot is a point-in-time copy of the UIState fields, taken under
// one lock acquisition so the flags are mutually consistent.
type UISnapshot struct {
	Paused      bool
	Reversed    bool
	SpeedMode   bool
	ShowHelp    bool
	ShouldExit  bool
	SpeedFactor float64

	RefreshRate  float64
	RealtimeRate float64
	LastRender   time.Time
}

// Rate is the signed virtual-clock multiplier the flags imply.
func (s UISnapshot) Rate() float64 {
	r := 1.0
	if s.SpeedMode {
		r = s.SpeedFactor
	}
	if s.Reversed {
		r = -r
	}
	return r
}

func NewUIState(t config.TimingConfig) *UIState {
	return &UIState{
		paused:        t.StartPaused,
		speedFactor:   t.SpeedFactor,
		refreshGamma:  t.RefreshGamma,
		realtimeGamma: t.RealtimeGamma,
		lastRender:    time.Now(),
	}
}

func (u *UIState) Snapshot() UISnapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	return UISnapshot{
		Paused:       u.paused,
		Reversed:     u.reversed,
		SpeedMode:    u.speedMode,
		ShowHelp:     u.showHelp,
		ShouldExit:   u.shouldExit,
		SpeedFactor:  u.speedFactor,
		RefreshRate:  u.refreshRate,
		RealtimeRate: u.realtimeRate,
		LastRender:   u.lastRender,
	}
}

// ForceExit makes the cancellation flag sticky; every loop checks it
// once per iteration.
func (u *UIState) ForceExit() {
	u.mu.Lock()
	u.shouldExit = true
	u.mu.Unlock()
}

func (u *UIState) TogglePause() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.paused = !u.paused
	return u.paused
}

func (u *UIState) ToggleReverse() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.reversed = !u.reversed
	return u.reversed
}

func (u *UIState) ToggleSpeedMode() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.speedMode = !u.speedMode
	return u.speedMode
}

func (u *UIState) ToggleHelp() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.showHelp = !u.showHelp
	return u.showHelp
}

// ScaleSpeed multiplies the speed factor, keeping it positive. The new
// factor is returned.
func (u *UIState) ScaleSpeed(f float64) float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	if f > 0 {
		u.speedFactor *= f
	}
	return u.speedFactor
}

func (u *UIState) SetSpeedFactor(f float64) {
	if f <= 0 {
		return
	}
	u.mu.Lock()
	u.speedFactor = f
	u.mu.Unlock()
}

// Rate is the signed clock multiplier implied by the current flags.
func (u *UIState) Rate() float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	r := 1.0
	if u.speedMode {
		r = u.speedFactor
	}
	if u.reversed {
		r = -r
	}
	return r
}

// MarkRender folds one completed frame into the refresh-rate average,
// stamps lastRender and merges the window-close signal into the exit
// flag. It reports whether the render loop should stop.
func (u *UIState) MarkRender(now time.Time, closeRequested bool) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if dt := now.Sub(u.lastRender).Seconds(); dt > 0 {
		inst := 1 / dt
		u.refreshRate = u.refreshGamma*u.refreshRate + (1-u.refreshGamma)*inst
	}
	u.lastRender = now
	u.shouldExit = u.shouldExit || closeRequested
	return u.shouldExit
}

// ObserveRealtime folds one physics iteration into the realtime-rate
// average: simDelta simulated seconds consumed over wallDelta wall
// seconds. Negative simDelta (reverse stepping) is reported as-is.
func (u *UIState) ObserveRealtime(simDelta, wallDelta float64) {
	if wallDelta <= 0 {
		return
	}
	inst := simDelta / wallDelta
	u.mu.Lock()
	u.realtimeRate = u.realtimeGamma*u.realtimeRate + (1-u.realtimeGamma)*inst
	u.mu.Unlock()
}
