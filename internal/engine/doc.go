// Package engine runs the interactive viewer: a dedicated physics
// goroutine advances the model against a rate-controlled virtual clock
// while the render thread samples the state for display, the two
// coordinated through [PhysicsState] and [UIState] and their locks.
//
// Lock discipline: the physics loop and the render thread both guard
// model access with the PhysicsState lock; flags and smoothed metrics
// live behind the UIState lock. Neither loop ever holds both locks at
// once. Input handlers are the one exception: they run on the render
// thread inside the PhysicsState critical section and may take the
// UIState lock briefly, so the UIState lock must never be held while
// acquiring the PhysicsState lock.
//
// Exactly one [Mode] is active at a time; mode hooks are always invoked
// with the PhysicsState lock held, and switches happen only on the
// render thread via the same lock, so the physics loop never observes a
// half-switched mode.
package engine
