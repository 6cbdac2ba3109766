package physics

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/simscope/internal/dynamo"
)

const (
	DefaultMass    = 1.0
	DefaultLength  = 1.0
	DefaultGravity = 9.81
)

// Body is a moving point of the model in world space, used for picking,
// trails and perturbation targeting.
type Body struct {
	Name string
	Pos  mgl64.Vec3
}

// Model is a simulation the viewer can step and rewind. Step advances
// exactly one fixed timestep under the given control input. Implementations
// are not reentrant and carry no locking of their own.
type Model interface {
	dynamo.System

	Name() string
	Timestep() float64
	Time() float64
	Step(u dynamo.Control) error
	Reset()
	State() dynamo.State
	SetState(x dynamo.State) error
	SetInitial(x dynamo.State) error
	Energy() float64
	Bodies() []Body
}

// New returns a fresh model by registry name.
func New(name string) (Model, error) {
	switch name {
	case "pendulum":
		return NewPendulum(), nil
	case "double_pendulum":
		return NewDoublePendulum(), nil
	case "spring":
		return NewSpring(), nil
	case "coupled":
		return NewCoupledPendulums(), nil
	default:
		return nil, fmt.Errorf("unknown model: %s (available: %s)", name, strings.Join(List(), ", "))
	}
}

// List returns the registry names in display order.
func List() []string {
	return []string{"pendulum", "double_pendulum", "spring", "coupled"}
}

// simBase carries the time/state bookkeeping shared by every model.
type simBase struct {
	dt    float64
	t     float64
	state dynamo.State
	init  dynamo.State
	integ dynamo.Integrator
}

func (b *simBase) Timestep() float64 { return b.dt }
func (b *simBase) Time() float64     { return b.t }

// State returns the live state vector; clone before retaining.
func (b *simBase) State() dynamo.State { return b.state }

func (b *simBase) Reset() {
	b.t = 0
	b.state = b.init.Clone()
}

func (b *simBase) SetState(x dynamo.State) error {
	if len(x) != len(b.state) {
		return dynamo.ErrDimensionMismatch
	}
	b.state = x.Clone()
	return nil
}

// SetInitial replaces the initial conditions and restarts from them.
func (b *simBase) SetInitial(x dynamo.State) error {
	if len(x) != len(b.init) {
		return dynamo.ErrDimensionMismatch
	}
	b.init = x.Clone()
	b.state = x.Clone()
	b.t = 0
	return nil
}

func (b *simBase) step(sys dynamo.System, u dynamo.Control) error {
	next := b.integ.Step(sys, b.state, u, b.t, b.dt)
	if !next.IsValid() {
		return &dynamo.StepError{Time: b.t, State: next, Wrapped: dynamo.ErrInvalidState}
	}
	b.state = next
	b.t += b.dt
	return nil
}
