package engine

import (
	"github.com/san-kum/simscope/internal/dynamo"
	"github.com/san-kum/simscope/internal/input"
	"github.com/san-kum/simscope/internal/physics"
)

// Window is the rendering surface the engine drives. Every method must
// be called from the thread the window was created on; the engine keeps
// all window calls on the caller's thread of Run.
type Window interface {
	// Poll drains pending input without blocking, translating events
	// into the sink. Called with the physics lock held so handlers may
	// touch the model and perturbation directly.
	Poll(sink func(input.Event))

	// Render draws the scene and swaps buffers. The swap may block on
	// vsync; no lock is held across it.
	Render(s *Scene)

	// Size reports the framebuffer size in pixels.
	Size() (w, h int)

	// CloseRequested reports whether the user asked to close the
	// window.
	CloseRequested() bool

	// CaptureFrame returns the current framebuffer as raw RGBA bytes,
	// or nil when capture is unavailable.
	CaptureFrame() []byte

	// Close destroys the window. Safe to call more than once.
	Close()
}

// Scene is the render-ready sample of the simulation, composed under
// the physics lock and handed to the window without it.
type Scene struct {
	Model string
	Mode  string

	// Time is the model's internal clock, Elapsed the simulated time
	// consumed so far, Target where the virtual clock wants it to be.
	Time    float64
	Elapsed float64
	Target  float64
	Energy  float64

	State  dynamo.State
	Bodies []physics.Body

	Perturb Perturbation

	UI        UISnapshot
	Bindings  []input.Binding
	Recording bool
	Recorded  int
}
