package integrators

import "github.com/san-kum/simscope/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta scheme. The stage buffer
// is reused across calls so stepping at interactive rates does not churn
// the allocator.
type RK4 struct {
	stage dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	if len(r.stage) != n {
		r.stage = make(dynamo.State, n)
	}

	k1 := dyn.Derive(x, u, t)

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := dyn.Derive(r.stage, u, t+dt*0.5)

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := dyn.Derive(r.stage, u, t+dt*0.5)

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + dt*k3[i]
	}
	k4 := dyn.Derive(r.stage, u, t+dt)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return result
}
