// Package control provides feedback controllers for the live-control
// viewer mode.
//
// Controllers compute a control input from the current state each
// timestep:
//
//   - [PID]: Proportional-Integral-Derivative controller
//   - [None]: passthrough controller (zero control)
//
// Controllers implementing [dynamo.Configurable] support live tuning.
package control

import (
	"fmt"
	"strings"

	"github.com/san-kum/simscope/internal/dynamo"
)

// Controller computes the control vector for the next step. Reset is
// called when simulated time rewinds to zero.
type Controller interface {
	Compute(x dynamo.State, t float64) dynamo.Control
	Reset()
}

// New returns a controller by registry name sized for dim control
// inputs.
func New(name string, dim int) (Controller, error) {
	switch name {
	case "pid":
		return NewPID(8.0, 0.5, 1.5, 0), nil
	case "none", "":
		return NewNone(dim), nil
	default:
		return nil, fmt.Errorf("unknown controller: %s (available: %s)", name, strings.Join(List(), ", "))
	}
}

// List returns the registry names in display order.
func List() []string {
	return []string{"none", "pid"}
}
