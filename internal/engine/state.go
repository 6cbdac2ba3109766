package engine

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/simscope/internal/clock"
	"github.com/san-kum/simscope/internal/dynamo"
	"github.com/san-kum/simscope/internal/physics"
)

// DefaultPerturbGain scales drag distance into applied force.
const DefaultPerturbGain = 25.0

// PhysicsState owns the model, the perturbation and the virtual clock.
// Every field is guarded by the lock: the physics loop holds it while
// stepping, the render thread holds it while polling input and
// composing the scene. Methods below that touch fields assume the
// caller already holds the lock.
type PhysicsState struct {
	mu sync.Mutex

	Model   physics.Model
	Perturb Perturbation
	Elapsed float64
	Timer   *clock.RateTimer
}

func NewPhysicsState(m physics.Model) *PhysicsState {
	return &PhysicsState{
		Model:   m,
		Timer:   clock.New(),
		Perturb: Perturbation{Gain: DefaultPerturbGain},
	}
}

func (p *PhysicsState) Lock()   { p.mu.Lock() }
func (p *PhysicsState) Unlock() { p.mu.Unlock() }

// ResetTime rewinds virtual time to zero without touching the model;
// resetting the model is the mode's business.
func (p *PhysicsState) ResetTime() {
	p.Timer.Reset()
	p.Elapsed = 0
}

// ForwardStep advances the model by one timestep through the mode hook
// and accounts for it in Elapsed.
func (p *PhysicsState) ForwardStep(m Mode) error {
	if err := m.Step(p); err != nil {
		return err
	}
	p.Elapsed += p.Model.Timestep()
	return nil
}

// ReverseStep undoes one timestep if the mode can. It reports false
// when the mode has no more history to rewind into.
func (p *PhysicsState) ReverseStep(m Mode) (bool, error) {
	ok, err := m.ReverseStep(p)
	if err != nil || !ok {
		return ok, err
	}
	p.Elapsed -= p.Model.Timestep()
	if p.Elapsed < 0 {
		p.Elapsed = 0
	}
	return true, nil
}

// PauseStep lets the mode do per-iteration bookkeeping while paused,
// without consuming simulated time.
func (p *PhysicsState) PauseStep(m Mode) error {
	return m.PauseStep(p)
}

// PerturbKind selects how an armed drag maps onto the model.
type PerturbKind int

const (
	PerturbTranslate PerturbKind = iota
	PerturbRotate
)

// Perturbation is the transient user force on a selected body. Armed
// by a modified mouse press, disarmed by release; while armed, drags
// update Force, and while disarmed the same drags steer the camera
// instead. Guarded by the PhysicsState lock because the stepping hooks
// read it.
type Perturbation struct {
	Selected int

	Active bool
	Kind   PerturbKind
	Body   int
	Ref    mgl64.Vec3
	Cursor mgl64.Vec3
	Force  mgl64.Vec3

	Gain float64
}

// CycleBody moves the selection to the next body and drops any armed
// perturbation, since it targeted the old selection.
func (p *Perturbation) CycleBody(nbodies int) {
	if nbodies == 0 {
		return
	}
	p.Selected = (p.Selected + 1) % nbodies
	p.Disarm()
}

// Arm records the reference frame for a perturbation on the currently
// selected body. It does nothing when the model exposes no bodies.
func (p *Perturbation) Arm(kind PerturbKind, bodies []physics.Body) {
	if p.Selected >= len(bodies) {
		return
	}
	p.Active = true
	p.Kind = kind
	p.Body = p.Selected
	p.Ref = bodies[p.Selected].Pos
	p.Cursor = p.Ref
	p.Force = mgl64.Vec3{}
}

func (p *Perturbation) Disarm() {
	p.Active = false
	p.Force = mgl64.Vec3{}
}

// Drag updates the applied force from the current world-plane cursor.
// Translate pulls the body toward the cursor; rotate converts the sweep
// around the pivot into a torque on the z axis.
func (p *Perturbation) Drag(cursor mgl64.Vec3) {
	if !p.Active {
		return
	}
	p.Cursor = cursor
	switch p.Kind {
	case PerturbTranslate:
		p.Force = cursor.Sub(p.Ref).Mul(p.Gain)
	case PerturbRotate:
		p.Force = mgl64.Vec3{0, 0, p.Gain * (p.Ref.X()*cursor.Y() - p.Ref.Y()*cursor.X())}
	}
}

// Control maps the perturbation onto a control vector of the given
// dimension: torque-like models get a single channel, planar models
// get the force components.
func (p *Perturbation) Control(dim int) dynamo.Control {
	u := make(dynamo.Control, dim)
	if !p.Active || dim == 0 {
		return u
	}
	if p.Kind == PerturbRotate {
		u[0] = p.Force.Z()
		return u
	}
	u[0] = p.Force.X()
	if dim > 1 {
		u[1] = p.Force.Y()
	}
	return u
}
