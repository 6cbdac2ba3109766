package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/simscope/internal/dynamo"
)

type oscillator struct{}

func (o *oscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int   { return 2 }
func (o *oscillator) ControlDim() int { return 0 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	u := dynamo.Control{}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, u, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4DoesNotMutateInput(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK4()

	x := dynamo.State{0.7, -0.3}
	before := x.Clone()

	integ.Step(dyn, x, dynamo.Control{}, 0, 0.01)

	for i := range x {
		if x[i] != before[i] {
			t.Errorf("input state mutated at index %d: %f != %f", i, x[i], before[i])
		}
	}
}

func TestEulerLinearGrowth(t *testing.T) {
	dyn := &rampDynamics{}
	integ := NewEuler()

	x := dynamo.State{0}
	dt := 0.1
	for i := 0; i < 10; i++ {
		x = integ.Step(dyn, x, nil, float64(i)*dt, dt)
	}

	// dx/dt = 1 is exact under forward Euler.
	if math.Abs(x[0]-1.0) > 1e-12 {
		t.Errorf("expected exactly 1.0 after 10 steps, got %f", x[0])
	}
}

type rampDynamics struct{}

func (r *rampDynamics) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{1}
}

func (r *rampDynamics) StateDim() int   { return 1 }
func (r *rampDynamics) ControlDim() int { return 0 }
