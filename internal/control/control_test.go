package control

import (
	"math"
	"testing"

	"github.com/san-kum/simscope/internal/dynamo"
)

func TestPIDProportional(t *testing.T) {
	pid := NewPID(2.0, 0, 0, 1.0)

	u := pid.Compute(dynamo.State{0, 0}, 0)

	if math.Abs(u[0]-2.0) > 1e-9 {
		t.Errorf("expected proportional response 2.0, got %f", u[0])
	}
}

func TestPIDIntegralAccumulates(t *testing.T) {
	pid := NewPID(0, 1.0, 0, 1.0)

	pid.Compute(dynamo.State{0}, 0)
	u1 := pid.Compute(dynamo.State{0}, 1.0)
	u2 := pid.Compute(dynamo.State{0}, 2.0)

	if u2[0] <= u1[0] {
		t.Errorf("integral term should grow with persistent error: %f then %f", u1[0], u2[0])
	}
}

func TestPIDReset(t *testing.T) {
	pid := NewPID(1.0, 1.0, 0, 1.0)
	pid.Compute(dynamo.State{0}, 0)
	pid.Compute(dynamo.State{0}, 1.0)

	pid.Reset()

	u := pid.Compute(dynamo.State{0}, 2.0)
	if math.Abs(u[0]-1.0) > 1e-9 {
		t.Errorf("after reset expected pure proportional 1.0, got %f", u[0])
	}
}

func TestPIDSetParam(t *testing.T) {
	pid := NewPID(1, 0, 0, 0)

	if err := pid.SetParam("target", 3.14); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	if pid.Target != 3.14 {
		t.Errorf("target not applied: %f", pid.Target)
	}

	if err := pid.SetParam("bogus", 1); err == nil {
		t.Error("expected error for unknown param")
	}
}

func TestNoneReturnsZeroVector(t *testing.T) {
	n := NewNone(2)

	u := n.Compute(dynamo.State{5, 5}, 1.0)

	if len(u) != 2 || u[0] != 0 || u[1] != 0 {
		t.Errorf("expected zero control of dim 2, got %v", u)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range List() {
		if _, err := New(name, 1); err != nil {
			t.Errorf("New(%q) failed: %v", name, err)
		}
	}

	if _, err := New("skynet", 1); err == nil {
		t.Error("expected error for unknown controller")
	}
}
