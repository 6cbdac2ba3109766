package input

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Binding pairs a match predicate with an action. Trigger and Effect
// are the human-readable strings shown in the help table; bindings with
// an empty Trigger (mouse motion, drags) stay out of the listing.
type Binding struct {
	Trigger string
	Effect  string
	Match   func(Event) bool
	Do      func(Event)
}

// KeyBinding matches a bare press of k.
func KeyBinding(k Key, trigger, effect string, do func()) Binding {
	return Binding{
		Trigger: trigger,
		Effect:  effect,
		Match: func(ev Event) bool {
			return ev.Kind == KeyPress && ev.Key == k && ev.Mods == 0
		},
		Do: func(Event) { do() },
	}
}

// KeyModBinding matches k pressed with exactly the given modifiers.
func KeyModBinding(k Key, mods Mod, trigger, effect string, do func()) Binding {
	return Binding{
		Trigger: trigger,
		Effect:  effect,
		Match: func(ev Event) bool {
			return ev.Kind == KeyPress && ev.Key == k && ev.Mods == mods
		},
		Do: func(Event) { do() },
	}
}

// Dispatch is an ordered registry of named binding sets. The viewer
// keeps a standard set registered for the whole session and swaps a
// per-mode set on every mode switch.
//
// Dispatch is not synchronized; only the event-owning thread may use it.
type Dispatch struct {
	sets *orderedmap.OrderedMap[string, []Binding]
}

func NewDispatch() *Dispatch {
	return &Dispatch{sets: orderedmap.NewOrderedMap[string, []Binding]()}
}

// Register installs or replaces the named set. A replaced set keeps its
// position in dispatch order.
func (d *Dispatch) Register(set string, bindings []Binding) {
	d.sets.Set(set, bindings)
}

// Deregister removes the named set. Unknown names are ignored.
func (d *Dispatch) Deregister(set string) {
	d.sets.Delete(set)
}

// Dispatch delivers ev to every matching binding. The binding list is
// snapshotted first, so handlers may register or deregister sets; the
// change takes effect from the next event.
func (d *Dispatch) Dispatch(ev Event) {
	for _, b := range d.snapshot() {
		if b.Match != nil && b.Match(ev) && b.Do != nil {
			b.Do(ev)
		}
	}
}

// Active returns every listed binding in dispatch order, for the help
// table.
func (d *Dispatch) Active() []Binding {
	var out []Binding
	for _, b := range d.snapshot() {
		if b.Trigger != "" {
			out = append(out, b)
		}
	}
	return out
}

func (d *Dispatch) snapshot() []Binding {
	var out []Binding
	for _, key := range d.sets.Keys() {
		bs, _ := d.sets.Get(key)
		out = append(out, bs...)
	}
	return out
}
