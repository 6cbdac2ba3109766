package engine

import (
	"github.com/san-kum/simscope/internal/input"
	"github.com/san-kum/simscope/internal/trajectory"
)

// Passive runs the model's own dynamics, driven only by the user
// perturbation. A ring of recent states backs reverse stepping: each
// forward step stashes the pre-step state, each reverse step pops one
// back into the model. Rewinding stops when the ring runs dry.
type Passive struct {
	depth   int
	history *trajectory.Ring
}

func NewPassive(historySteps int) *Passive {
	if historySteps < 1 {
		historySteps = 1
	}
	return &Passive{depth: historySteps}
}

func (m *Passive) Name() string { return "dynamics" }

func (m *Passive) Setup(p *PhysicsState) error {
	m.history = trajectory.NewRing(m.depth)
	return nil
}

func (m *Passive) Teardown(p *PhysicsState) error {
	m.history = nil
	return nil
}

func (m *Passive) Step(p *PhysicsState) error {
	m.history.Push(p.Model.Time(), p.Model.State())
	u := p.Perturb.Control(p.Model.ControlDim())
	return p.Model.Step(u)
}

func (m *Passive) ReverseStep(p *PhysicsState) (bool, error) {
	_, x, ok := m.history.Pop()
	if !ok {
		return false, nil
	}
	return true, p.Model.SetState(x)
}

func (m *Passive) PauseStep(p *PhysicsState) error { return nil }

func (m *Passive) Bindings(e *Engine) []input.Binding { return nil }
