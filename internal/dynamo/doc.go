// Package dynamo provides the core data model of the soft-body simulator.
//
// A body is two arenas:
//
//   - [Point]: a point mass with position, velocity and a force accumulator
//   - [Spring]: a Hookean link that refers to its endpoints by index
//
// Springs never hold references to points, so a [Body] can be cloned with
// two copies and validated with index checks alone. Renderers and metrics
// read a body through the [View] interface.
//
// # Example
//
//	body, _ := topology.Generate(topology.CubeMinimal, topology.DefaultParams())
//	in, _ := physics.New(physics.DefaultParams())
//	t, _ = in.Advance(body.Points, body.Springs, t, 0.1)
//
// # Thread Safety
//
// Bodies are NOT thread-safe. One goroutine owns a body while it is being
// integrated; use [Body.Clone] to hand a snapshot to another goroutine.
package dynamo
