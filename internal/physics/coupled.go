package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/simscope/internal/dynamo"
	"github.com/san-kum/simscope/internal/integrators"
)

const coupledTimestep = 0.01

// CoupledSeparation is the distance between the two pivots. Renderers
// need it to place the rods.
const CoupledSeparation = 1.2

// CoupledPendulums is two equal pendulums joined by a torsion spring,
// showing slow energy transfer between them. State layout is
// [theta1, theta2, omega1, omega2]; the control input is a torque on
// the first pendulum.
type CoupledPendulums struct {
	simBase

	Length   float64
	Mass     float64
	Coupling float64
	Gravity  float64
}

func NewCoupledPendulums() *CoupledPendulums {
	c := &CoupledPendulums{
		Length:   DefaultLength,
		Mass:     DefaultMass,
		Coupling: 20.0,
		Gravity:  DefaultGravity,
	}
	c.dt = coupledTimestep
	c.integ = integrators.NewRK4()
	c.init = dynamo.State{0.5, 0, 0, 0}
	c.state = c.init.Clone()
	return c
}

func (c *CoupledPendulums) Name() string    { return "coupled" }
func (c *CoupledPendulums) StateDim() int   { return 4 }
func (c *CoupledPendulums) ControlDim() int { return 1 }

func (c *CoupledPendulums) Step(u dynamo.Control) error {
	return c.step(c, u)
}

func (c *CoupledPendulums) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	theta1, theta2, omega1, omega2 := x[0], x[1], x[2], x[3]

	tau := 0.0
	if len(u) > 0 {
		tau = u[0]
	}

	coupling := c.Coupling * (theta2 - theta1) / c.Mass

	alpha1 := -c.Gravity/c.Length*math.Sin(theta1) + coupling/c.Length +
		tau/(c.Mass*c.Length*c.Length)
	alpha2 := -c.Gravity/c.Length*math.Sin(theta2) - coupling/c.Length

	return dynamo.State{omega1, omega2, alpha1, alpha2}
}

func (c *CoupledPendulums) Energy() float64 {
	theta1, theta2, omega1, omega2 := c.state[0], c.state[1], c.state[2], c.state[3]

	ke := 0.5 * c.Mass * c.Length * c.Length * (omega1*omega1 + omega2*omega2)
	pe := c.Mass * c.Gravity * c.Length * (2 - math.Cos(theta1) - math.Cos(theta2))
	spring := 0.5 * c.Coupling * (theta2 - theta1) * (theta2 - theta1)

	return ke + pe + spring
}

func (c *CoupledPendulums) Bodies() []Body {
	theta1, theta2 := c.state[0], c.state[1]
	half := CoupledSeparation / 2
	return []Body{
		{Name: "bob1", Pos: mgl64.Vec3{-half + c.Length*math.Sin(theta1), -c.Length * math.Cos(theta1), 0}},
		{Name: "bob2", Pos: mgl64.Vec3{half + c.Length*math.Sin(theta2), -c.Length * math.Cos(theta2), 0}},
	}
}

func (c *CoupledPendulums) GetParams() map[string]float64 {
	return map[string]float64{
		"length":   c.Length,
		"mass":     c.Mass,
		"coupling": c.Coupling,
		"gravity":  c.Gravity,
	}
}

func (c *CoupledPendulums) SetParam(name string, value float64) error {
	switch name {
	case "length":
		c.Length = value
	case "mass":
		c.Mass = value
	case "coupling":
		c.Coupling = value
	case "gravity":
		c.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
