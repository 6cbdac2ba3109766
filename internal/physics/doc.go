// Package physics provides the dynamical system models the viewer steps.
//
// Each model implements [Model]: a fixed-timestep simulation that can be
// stepped, reset, perturbed through its control input, and asked for the
// world-space positions of its moving bodies:
//
//   - [Pendulum]: damped pendulum with torque input
//   - [DoublePendulum]: chaotic coupled pendulum
//   - [Spring]: planar mass on a spring with planar force input
//   - [CoupledPendulums]: two pendulums joined by a torsion spring
//
// Models also implement [dynamo.Configurable] for runtime parameter
// adjustment. None of them are safe for concurrent use; the viewer holds
// its physics lock around every call.
package physics
