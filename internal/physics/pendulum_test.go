package physics

import (
	"math"
	"testing"

	"github.com/san-kum/simscope/internal/dynamo"
)

func TestPendulumEquilibrium(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	dx := p.Derive(dynamo.State{0, 0}, dynamo.Control{0}, 0)

	if math.Abs(dx[0]) > 1e-10 {
		t.Errorf("expected zero velocity at equilibrium, got %f", dx[0])
	}

	if math.Abs(dx[1]) > 1e-10 {
		t.Errorf("expected zero acceleration at equilibrium, got %f", dx[1])
	}
}

func TestPendulumGravity(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	dx := p.Derive(dynamo.State{math.Pi / 2, 0}, dynamo.Control{0}, 0)

	expectedAccel := -p.Gravity / p.Length

	if math.Abs(dx[1]-expectedAccel) > 1e-6 {
		t.Errorf("expected acceleration %f, got %f", expectedAccel, dx[1])
	}
}

func TestPendulumEnergyConservation(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	before := p.Energy()
	for i := 0; i < 100; i++ {
		if err := p.Step(nil); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
	after := p.Energy()

	if math.Abs(after-before) > 1e-4 {
		t.Errorf("energy drifted from %f to %f over 100 undamped steps", before, after)
	}
}

func TestPendulumTorqueInput(t *testing.T) {
	p := NewPendulum()

	dx0 := p.Derive(dynamo.State{0, 0}, dynamo.Control{0}, 0)
	dx1 := p.Derive(dynamo.State{0, 0}, dynamo.Control{3.0}, 0)

	gained := dx1[1] - dx0[1]
	expected := 3.0 / (p.Mass * p.Length * p.Length)

	if math.Abs(gained-expected) > 1e-9 {
		t.Errorf("torque response wrong: got %f, expected %f", gained, expected)
	}
}
