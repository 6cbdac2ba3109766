package engine

import "github.com/san-kum/simscope/internal/input"

// Mode is one strategy for producing simulation steps. Exactly one
// mode is active at a time; the engine calls every hook with the
// PhysicsState lock held. Private mode state is reset in Setup and
// dropped in Teardown.
type Mode interface {
	Name() string

	// Setup initializes private state on entry. A Setup error aborts
	// the mode switch and is fatal for the session.
	Setup(p *PhysicsState) error

	// Teardown releases private state on exit.
	Teardown(p *PhysicsState) error

	// Step advances the model by one fixed timestep.
	Step(p *PhysicsState) error

	// ReverseStep undoes one timestep, reporting false when there is
	// nothing left to rewind into.
	ReverseStep(p *PhysicsState) (bool, error)

	// PauseStep runs every loop iteration while paused.
	PauseStep(p *PhysicsState) error

	// Bindings returns the mode's own input handlers, swapped in and
	// out of the dispatch registry on every switch.
	Bindings(e *Engine) []input.Binding
}
