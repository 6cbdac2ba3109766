package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/simscope/internal/dynamo"
	"github.com/san-kum/simscope/internal/integrators"
)

const (
	springTimestep   = 0.01
	DefaultStiffness = 40.0
	DefaultDamping   = 0.4
)

// Spring is a planar mass tethered to the origin by a linear spring,
// under gravity. State layout is [px, py, vx, vy]; the control input is
// a planar force [fx, fy], which makes it the friendliest model for
// mouse perturbation.
type Spring struct {
	simBase

	Mass       float64
	Stiffness  float64
	Damping    float64
	RestLength float64
	Gravity    float64
}

func NewSpring() *Spring {
	s := &Spring{
		Mass:       DefaultMass,
		Stiffness:  DefaultStiffness,
		Damping:    DefaultDamping,
		RestLength: DefaultLength,
		Gravity:    DefaultGravity,
	}
	s.dt = springTimestep
	s.integ = integrators.NewRK4()
	s.init = dynamo.State{1.3, -0.5, 0, 0}
	s.state = s.init.Clone()
	return s
}

func (s *Spring) Name() string    { return "spring" }
func (s *Spring) StateDim() int   { return 4 }
func (s *Spring) ControlDim() int { return 2 }

func (s *Spring) Step(u dynamo.Control) error {
	return s.step(s, u)
}

func (s *Spring) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	px, py, vx, vy := x[0], x[1], x[2], x[3]

	fx, fy := 0.0, 0.0
	if len(u) > 0 {
		fx = u[0]
	}
	if len(u) > 1 {
		fy = u[1]
	}

	// Radial spring force toward rest length; direction undefined at the
	// anchor itself, so skip it there.
	r := math.Hypot(px, py)
	if r > 1e-9 {
		mag := -s.Stiffness * (r - s.RestLength) / r
		fx += mag * px
		fy += mag * py
	}

	fx -= s.Damping * vx
	fy -= s.Damping*vy + s.Mass*s.Gravity

	return dynamo.State{vx, vy, fx / s.Mass, fy / s.Mass}
}

func (s *Spring) Energy() float64 {
	px, py, vx, vy := s.state[0], s.state[1], s.state[2], s.state[3]
	stretch := math.Hypot(px, py) - s.RestLength
	ke := 0.5 * s.Mass * (vx*vx + vy*vy)
	pe := 0.5*s.Stiffness*stretch*stretch + s.Mass*s.Gravity*py
	return ke + pe
}

func (s *Spring) Bodies() []Body {
	return []Body{
		{Name: "mass", Pos: mgl64.Vec3{s.state[0], s.state[1], 0}},
	}
}

func (s *Spring) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":      s.Mass,
		"stiffness": s.Stiffness,
		"damping":   s.Damping,
		"rest":      s.RestLength,
		"gravity":   s.Gravity,
	}
}

func (s *Spring) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		s.Mass = value
	case "stiffness":
		s.Stiffness = value
	case "damping":
		s.Damping = value
	case "rest":
		s.RestLength = value
	case "gravity":
		s.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
