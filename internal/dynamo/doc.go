// Package dynamo provides core primitives for dynamical systems.
//
// The package defines the fundamental types shared by the model
// implementations and the numerical integrators:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Hamiltonian]: systems that can report total energy
//
// # Thread Safety
//
// Nothing in this package is synchronized. Callers that share a State
// or System across goroutines must provide their own locking; the
// viewer core holds its physics lock around every use.
package dynamo
