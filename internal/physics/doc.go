// Package physics advances a soft body: Hookean springs with a breathing
// rest length, a penalty ground plane with Coulomb-style friction, and a
// fixed-step damped integrator.
//
//   - [Params]: immutable tuning, validated once by [New]
//   - [ApplySpringForces]: accumulates spring forces into point accumulators
//   - [Integrator.Advance]: runs fixed sub-steps until a target increment is covered
//
// # Sub-step semantics
//
// Each sub-step updates velocity with v = (a·dt + v)·(1 - dt·rate) and then
// position with p += v. Velocity is therefore a displacement per sub-step
// rather than a rate, and the ground friction subtracts fy·μ from both
// horizontal force components regardless of their sign.
//
//	in, err := physics.New(physics.DefaultParams())
//	t, err = in.Advance(body.Points, body.Springs, t, 0.1)
package physics
