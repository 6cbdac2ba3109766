package trajectory

import "github.com/san-kum/simscope/internal/dynamo"

// Ring is a bounded last-in-first-out history of (time, state) samples.
// When full, pushing evicts the oldest sample. The viewer pushes the
// pre-step state on every forward step and pops to step backward.
type Ring struct {
	times  []float64
	states []dynamo.State
	head   int
	size   int
}

func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{
		times:  make([]float64, capacity),
		states: make([]dynamo.State, capacity),
	}
}

func (r *Ring) Len() int {
	return r.size
}

func (r *Ring) Cap() int {
	return len(r.states)
}

// Push records a sample, cloning the state.
func (r *Ring) Push(t float64, x dynamo.State) {
	r.times[r.head] = t
	r.states[r.head] = x.Clone()
	r.head = (r.head + 1) % len(r.states)
	if r.size < len(r.states) {
		r.size++
	}
}

// Pop removes and returns the most recent sample. ok is false when the
// history is exhausted.
func (r *Ring) Pop() (t float64, x dynamo.State, ok bool) {
	if r.size == 0 {
		return 0, nil, false
	}
	r.head = (r.head - 1 + len(r.states)) % len(r.states)
	r.size--
	return r.times[r.head], r.states[r.head], true
}

func (r *Ring) Clear() {
	r.head = 0
	r.size = 0
}
