package engine

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/simscope/internal/input"
)

// standardBindings is the session-wide handler set. Handlers run
// inside Poll's physics critical section, so they may touch the timer
// and perturbation directly; UIState methods take the UI lock briefly,
// which is the one sanctioned nested acquisition.
func (e *Engine) standardBindings() []input.Binding {
	bs := []input.Binding{
		input.KeyBinding(input.KeySpace, "space", "toggle pause", e.togglePause),
		input.KeyBinding(input.KeyB, "b", "toggle reverse playback", e.toggleReverse),
		input.KeyBinding(input.KeyS, "s", "toggle speed mode", e.toggleSpeedMode),
		input.KeyBinding(input.KeyEqual, "=", "double playback speed", func() { e.scaleSpeed(2) }),
		input.KeyBinding(input.KeyMinus, "-", "halve playback speed", func() { e.scaleSpeed(0.5) }),
		input.KeyBinding(input.KeyM, "m", "next mode", e.cycleMode),
		input.KeyBinding(input.KeyR, "r", "restart simulation", e.restart),
		input.KeyBinding(input.KeyTab, "tab", "select next body", e.cycleBody),
		input.KeyBinding(input.KeyV, "v", "toggle video recording", e.ToggleRecording),
		input.KeyBinding(input.KeyH, "h", "toggle key help", func() { e.ui.ToggleHelp() }),
		input.KeyBinding(input.KeyQ, "q", "quit", e.ui.ForceExit),
		input.KeyBinding(input.KeyEscape, "esc", "quit", e.ui.ForceExit),
	}
	return append(bs, e.pointerBindings()...)
}

// HelpBindings lists the standard viewer bindings for rendering key
// help outside a running session. The handlers are unwired; only the
// trigger and effect strings are meaningful.
func HelpBindings() []input.Binding {
	var e Engine
	return e.standardBindings()
}

// pointerBindings route mouse input: a control-modified press arms the
// perturbation on the selected body, release disarms it, and drags
// update the applied force. Drag events carry world-plane coordinates;
// the window layer keeps unarmed drags for the camera and never emits
// them here.
func (e *Engine) pointerBindings() []input.Binding {
	arm := func(kind PerturbKind) func(input.Event) {
		return func(input.Event) {
			e.phys.Perturb.Arm(kind, e.phys.Model.Bodies())
		}
	}
	return []input.Binding{
		{
			Trigger: "ctrl+left-drag",
			Effect:  "apply a translating force to the selected body",
			Match: func(ev input.Event) bool {
				return ev.Kind == input.MousePress && ev.Button == input.ButtonLeft && ev.Mods&input.ModCtrl != 0
			},
			Do: arm(PerturbTranslate),
		},
		{
			Trigger: "ctrl+right-drag",
			Effect:  "apply a rotating force to the selected body",
			Match: func(ev input.Event) bool {
				return ev.Kind == input.MousePress && ev.Button == input.ButtonRight && ev.Mods&input.ModCtrl != 0
			},
			Do: arm(PerturbRotate),
		},
		{
			Match: func(ev input.Event) bool { return ev.Kind == input.MouseRelease },
			Do:    func(input.Event) { e.phys.Perturb.Disarm() },
		},
		{
			Match: func(ev input.Event) bool { return ev.Kind == input.MouseDrag },
			Do: func(ev input.Event) {
				e.phys.Perturb.Drag(mgl64.Vec3{ev.X, ev.Y, 0})
			},
		},
	}
}

func (e *Engine) togglePause() {
	if e.ui.TogglePause() {
		e.phys.Timer.Stop()
	} else {
		e.phys.Timer.Start()
	}
}

func (e *Engine) toggleReverse() {
	e.ui.ToggleReverse()
	e.phys.Timer.SetRate(e.ui.Rate())
}

func (e *Engine) toggleSpeedMode() {
	e.ui.ToggleSpeedMode()
	e.phys.Timer.SetRate(e.ui.Rate())
}

func (e *Engine) scaleSpeed(f float64) {
	e.ui.ScaleSpeed(f)
	e.phys.Timer.SetRate(e.ui.Rate())
}

func (e *Engine) cycleBody() {
	e.phys.Perturb.CycleBody(len(e.phys.Model.Bodies()))
}

func (e *Engine) cycleMode() {
	if len(e.modes) < 2 {
		return
	}
	if err := e.switchMode((e.modeIdx + 1) % len(e.modes)); err != nil {
		e.fail(err)
	}
}

// restart rewinds the session: model back to its initial conditions,
// virtual time to zero, fresh mode state.
func (e *Engine) restart() {
	e.phys.Model.Reset()
	e.phys.ResetTime()
	if err := e.switchMode(e.modeIdx); err != nil {
		e.fail(err)
	}
}
