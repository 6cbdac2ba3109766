package engine

import (
	"github.com/san-kum/simscope/internal/control"
	"github.com/san-kum/simscope/internal/input"
	"github.com/san-kum/simscope/internal/trajectory"
)

// Controlled feeds the model from a feedback controller, with the user
// perturbation added on top of the computed control. Reverse stepping
// works the same way as in Passive, off a ring of pre-step states.
type Controlled struct {
	ctrl    control.Controller
	depth   int
	history *trajectory.Ring
}

func NewControlled(c control.Controller, historySteps int) *Controlled {
	if historySteps < 1 {
		historySteps = 1
	}
	return &Controlled{ctrl: c, depth: historySteps}
}

func (m *Controlled) Name() string { return "controlled" }

func (m *Controlled) Setup(p *PhysicsState) error {
	m.ctrl.Reset()
	m.history = trajectory.NewRing(m.depth)
	return nil
}

func (m *Controlled) Teardown(p *PhysicsState) error {
	m.history = nil
	return nil
}

func (m *Controlled) Step(p *PhysicsState) error {
	m.history.Push(p.Model.Time(), p.Model.State())

	u := m.ctrl.Compute(p.Model.State(), p.Model.Time())
	for i, v := range p.Perturb.Control(p.Model.ControlDim()) {
		if i < len(u) {
			u[i] += v
		}
	}
	return p.Model.Step(u)
}

func (m *Controlled) ReverseStep(p *PhysicsState) (bool, error) {
	_, x, ok := m.history.Pop()
	if !ok {
		return false, nil
	}
	return true, p.Model.SetState(x)
}

func (m *Controlled) PauseStep(p *PhysicsState) error { return nil }

func (m *Controlled) Bindings(e *Engine) []input.Binding { return nil }
