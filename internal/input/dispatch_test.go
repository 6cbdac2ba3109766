package input

import (
	"reflect"
	"testing"
)

func record(log *[]string, name string) Binding {
	return Binding{
		Trigger: name,
		Effect:  "records " + name,
		Match:   func(Event) bool { return true },
		Do:      func(Event) { *log = append(*log, name) },
	}
}

func TestDispatchOrder(t *testing.T) {
	var log []string
	d := NewDispatch()
	d.Register("standard", []Binding{record(&log, "a"), record(&log, "b")})
	d.Register("mode", []Binding{record(&log, "c")})

	d.Dispatch(Event{Kind: KeyPress})

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("dispatch order = %v, want %v", log, want)
	}
}

func TestRegisterReplaceKeepsPosition(t *testing.T) {
	var log []string
	d := NewDispatch()
	d.Register("standard", []Binding{record(&log, "old")})
	d.Register("mode", []Binding{record(&log, "mode")})
	d.Register("standard", []Binding{record(&log, "new")})

	d.Dispatch(Event{Kind: KeyPress})

	want := []string{"new", "mode"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("dispatch order = %v, want %v", log, want)
	}
}

func TestDeregister(t *testing.T) {
	var log []string
	d := NewDispatch()
	d.Register("standard", []Binding{record(&log, "a")})
	d.Register("mode", []Binding{record(&log, "b")})
	d.Deregister("mode")
	d.Deregister("never-existed")

	d.Dispatch(Event{Kind: KeyPress})

	want := []string{"a"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("dispatch after deregister = %v, want %v", log, want)
	}
}

func TestMutationDuringDispatchTakesEffectNextEvent(t *testing.T) {
	var log []string
	d := NewDispatch()

	swap := Binding{
		Trigger: "swap",
		Match:   func(Event) bool { return true },
		Do: func(Event) {
			log = append(log, "swap")
			d.Deregister("mode")
		},
	}
	d.Register("standard", []Binding{swap})
	d.Register("mode", []Binding{record(&log, "mode")})

	d.Dispatch(Event{Kind: KeyPress})
	d.Dispatch(Event{Kind: KeyPress})

	// The first event still reaches the deregistered set; the second
	// does not.
	want := []string{"swap", "mode", "swap"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestMatchFiltering(t *testing.T) {
	var pressed, dragged int
	d := NewDispatch()
	d.Register("standard", []Binding{
		KeyBinding(KeySpace, "space", "count presses", func() { pressed++ }),
		{
			Match: func(ev Event) bool { return ev.Kind == MouseDrag },
			Do:    func(Event) { dragged++ },
		},
	})

	d.Dispatch(Event{Kind: KeyPress, Key: KeySpace})
	d.Dispatch(Event{Kind: KeyPress, Key: KeySpace, Mods: ModCtrl})
	d.Dispatch(Event{Kind: MouseDrag, DX: 2})

	if pressed != 1 {
		t.Errorf("bare space should match once, got %d", pressed)
	}
	if dragged != 1 {
		t.Errorf("drag should match once, got %d", dragged)
	}
}

func TestActiveSkipsUnlistedBindings(t *testing.T) {
	d := NewDispatch()
	d.Register("standard", []Binding{
		KeyBinding(KeySpace, "space", "toggle pause", func() {}),
		{Match: func(Event) bool { return true }},
	})
	d.Register("mode", []Binding{
		KeyModBinding(Key('R'), ModShift, "shift+r", "hard reset", func() {}),
	})

	active := d.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 listed bindings, got %d", len(active))
	}
	if active[0].Trigger != "space" || active[1].Trigger != "shift+r" {
		t.Errorf("unexpected listing: %q, %q", active[0].Trigger, active[1].Trigger)
	}
}
