package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/simscope/internal/dynamo"
	"github.com/san-kum/simscope/internal/integrators"
)

const doublePendulumTimestep = 0.005

// DoublePendulum is the classic chaotic demo. State layout is
// [theta1, theta2, omega1, omega2]; the control input is a torque on
// the first joint.
type DoublePendulum struct {
	simBase

	M1, M2  float64
	L1, L2  float64
	Gravity float64
}

func NewDoublePendulum() *DoublePendulum {
	d := &DoublePendulum{
		M1: DefaultMass, M2: DefaultMass,
		L1: DefaultLength, L2: DefaultLength,
		Gravity: DefaultGravity,
	}
	d.dt = doublePendulumTimestep
	d.integ = integrators.NewRK4()
	d.init = dynamo.State{1.8, 2.2, 0, 0}
	d.state = d.init.Clone()
	return d
}

func (d *DoublePendulum) Name() string    { return "double_pendulum" }
func (d *DoublePendulum) StateDim() int   { return 4 }
func (d *DoublePendulum) ControlDim() int { return 1 }

func (d *DoublePendulum) Step(u dynamo.Control) error {
	return d.step(d, u)
}

func (d *DoublePendulum) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	theta1, theta2, omega1, omega2 := x[0], x[1], x[2], x[3]
	m1, m2, l1, l2, g := d.M1, d.M2, d.L1, d.L2, d.Gravity

	delta := theta2 - theta1
	sinD, cosD := math.Sin(delta), math.Cos(delta)

	tau := 0.0
	if len(u) > 0 {
		tau = u[0]
	}

	den1 := (m1+m2)*l1 - m2*l1*cosD*cosD
	den2 := (l2 / l1) * den1

	alpha1 := (m2*l1*omega1*omega1*sinD*cosD +
		m2*g*math.Sin(theta2)*cosD +
		m2*l2*omega2*omega2*sinD -
		(m1+m2)*g*math.Sin(theta1) + tau) / den1

	alpha2 := (-m2*l2*omega2*omega2*sinD*cosD +
		(m1+m2)*g*math.Sin(theta1)*cosD -
		(m1+m2)*l1*omega1*omega1*sinD -
		(m1+m2)*g*math.Sin(theta2)) / den2

	return dynamo.State{omega1, omega2, alpha1, alpha2}
}

func (d *DoublePendulum) Energy() float64 {
	theta1, theta2, omega1, omega2 := d.state[0], d.state[1], d.state[2], d.state[3]
	m1, m2, l1, l2, g := d.M1, d.M2, d.L1, d.L2, d.Gravity

	v1sq := l1 * l1 * omega1 * omega1
	v2sq := l1*l1*omega1*omega1 + l2*l2*omega2*omega2 +
		2*l1*l2*omega1*omega2*math.Cos(theta1-theta2)

	ke := 0.5*m1*v1sq + 0.5*m2*v2sq
	y1 := -l1 * math.Cos(theta1)
	y2 := y1 - l2*math.Cos(theta2)
	pe := m1*g*y1 + m2*g*y2

	return ke + pe
}

func (d *DoublePendulum) Bodies() []Body {
	theta1, theta2 := d.state[0], d.state[1]
	x1 := d.L1 * math.Sin(theta1)
	y1 := -d.L1 * math.Cos(theta1)
	x2 := x1 + d.L2*math.Sin(theta2)
	y2 := y1 - d.L2*math.Cos(theta2)
	return []Body{
		{Name: "bob1", Pos: mgl64.Vec3{x1, y1, 0}},
		{Name: "bob2", Pos: mgl64.Vec3{x2, y2, 0}},
	}
}

func (d *DoublePendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"m1": d.M1, "m2": d.M2,
		"l1": d.L1, "l2": d.L2,
		"gravity": d.Gravity,
	}
}

func (d *DoublePendulum) SetParam(name string, value float64) error {
	switch name {
	case "m1":
		d.M1 = value
	case "m2":
		d.M2 = value
	case "l1":
		d.L1 = value
	case "l2":
		d.L2 = value
	case "gravity":
		d.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
