// Package trajectory holds recorded state series: full runs for playback
// and the bounded ring of recent states that backs reverse stepping.
package trajectory

import (
	"time"

	"github.com/san-kum/simscope/internal/dynamo"
)

// Trajectory is a recorded run sampled at a fixed timestep.
type Trajectory struct {
	ID       string
	Model    string
	Dt       float64
	Recorded time.Time
	Times    []float64
	States   []dynamo.State
}

func (tr *Trajectory) Len() int {
	return len(tr.States)
}

// At returns the sample at index i, clamped to the valid range.
func (tr *Trajectory) At(i int) (float64, dynamo.State) {
	if i < 0 {
		i = 0
	}
	if i >= len(tr.States) {
		i = len(tr.States) - 1
	}
	return tr.Times[i], tr.States[i]
}

// Append records a sample, cloning the state.
func (tr *Trajectory) Append(t float64, x dynamo.State) {
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, x.Clone())
}
