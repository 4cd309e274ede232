// Package dynamo provides the core state types of the particle kernel.
//
//   - [Vector3]: immutable 3-component vector
//   - [Particle]: point mass with position, velocity and transient acceleration
//   - [Body]: non-owning, ordered group of particle handles used for rendering
//   - [World]: the simulation context owning particles and bodies
//   - [Integrator], [Metric], [Observer]: extension points used by package sim
//
// # Example
//
//	w := dynamo.NewWorld()
//	a, _ := w.Spawn(1, dynamo.Vec3(0, 0, 0), dynamo.Vector3{})
//	b, _ := w.Spawn(2, dynamo.Vec3(1, 0, 0), dynamo.Vector3{})
//	w.AddBody("pair", a, b)
//	positions := w.Positions()
//
// # Thread Safety
//
// A World is NOT thread-safe. Confine each world to a single goroutine, or
// use [World.Clone] to hand independent copies to other workers.
package dynamo
