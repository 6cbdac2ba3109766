package physics

import (
	"math"
	"testing"

	"github.com/san-kum/simscope/internal/dynamo"
)

func TestRegistry(t *testing.T) {
	for _, name := range List() {
		m, err := New(name)
		if err != nil {
			t.Errorf("New(%q) failed: %v", name, err)
			continue
		}
		if m.Name() != name {
			t.Errorf("model %q reports name %q", name, m.Name())
		}
		if m.Timestep() <= 0 {
			t.Errorf("model %q has non-positive timestep %f", name, m.Timestep())
		}
	}

	if _, err := New("flying_toaster"); err == nil {
		t.Error("expected error for unknown model name")
	}
}

func TestStepAdvancesTime(t *testing.T) {
	for _, name := range List() {
		m, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}

		for i := 0; i < 5; i++ {
			if err := m.Step(nil); err != nil {
				t.Fatalf("%s: step %d failed: %v", name, i, err)
			}
		}

		want := 5 * m.Timestep()
		if math.Abs(m.Time()-want) > 1e-12 {
			t.Errorf("%s: time after 5 steps = %f, want %f", name, m.Time(), want)
		}
		if !m.State().IsValid() {
			t.Errorf("%s: state invalid after stepping", name)
		}
	}
}

func TestResetRestoresInitial(t *testing.T) {
	for _, name := range List() {
		m, _ := New(name)
		initial := m.State().Clone()

		for i := 0; i < 20; i++ {
			m.Step(nil)
		}
		m.Reset()

		if m.Time() != 0 {
			t.Errorf("%s: time not zero after reset: %f", name, m.Time())
		}
		for i, v := range m.State() {
			if v != initial[i] {
				t.Errorf("%s: state[%d] = %f after reset, want %f", name, i, v, initial[i])
				break
			}
		}
	}
}

func TestSetStateChecksDimension(t *testing.T) {
	m := NewPendulum()

	if err := m.SetState(dynamo.State{1, 2, 3}); err == nil {
		t.Error("expected dimension error for oversized state")
	}

	if err := m.SetState(dynamo.State{0.1, -0.2}); err != nil {
		t.Errorf("unexpected error for valid state: %v", err)
	}
	if m.State()[0] != 0.1 || m.State()[1] != -0.2 {
		t.Errorf("state not applied: %v", m.State())
	}
}

func TestSetInitialRestarts(t *testing.T) {
	m := NewSpring()
	for i := 0; i < 10; i++ {
		m.Step(nil)
	}

	if err := m.SetInitial(dynamo.State{0.5, 0.5, 0, 0}); err != nil {
		t.Fatalf("SetInitial: %v", err)
	}
	if m.Time() != 0 {
		t.Errorf("time not rewound by SetInitial: %f", m.Time())
	}

	m.Step(nil)
	m.Reset()
	if m.State()[0] != 0.5 {
		t.Errorf("reset did not return to new initial state: %v", m.State())
	}
}

func TestSpringHangingEquilibrium(t *testing.T) {
	s := NewSpring()

	// Static sag below the anchor balances gravity against the spring.
	sag := s.RestLength + s.Mass*s.Gravity/s.Stiffness
	dx := s.Derive(dynamo.State{0, -sag, 0, 0}, nil, 0)

	for i, v := range dx {
		if math.Abs(v) > 1e-9 {
			t.Errorf("expected equilibrium, derivative[%d] = %f", i, v)
		}
	}
}

func TestBodiesMatchModels(t *testing.T) {
	counts := map[string]int{
		"pendulum":        1,
		"double_pendulum": 2,
		"spring":          1,
		"coupled":         2,
	}

	for name, want := range counts {
		m, _ := New(name)
		bodies := m.Bodies()
		if len(bodies) != want {
			t.Errorf("%s: got %d bodies, want %d", name, len(bodies), want)
		}
		for _, b := range bodies {
			for i := 0; i < 3; i++ {
				if math.IsNaN(b.Pos[i]) {
					t.Errorf("%s: body %s has NaN position", name, b.Name)
				}
			}
		}
	}
}
