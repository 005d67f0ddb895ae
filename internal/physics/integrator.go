package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

// Integrator advances a body through fixed sub-steps of Params.Dt.
// It holds no state besides its configuration, so one Integrator may drive
// any number of bodies, one call at a time per body.
type Integrator struct {
	params    Params
	dampening float64
}

func New(p Params) (*Integrator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Integrator{params: p, dampening: p.Dampening()}, nil
}

func (in *Integrator) Params() Params { return in.params }

// Substeps is how many sub-steps Advance will run from t for increment.
func (in *Integrator) Substeps(t, increment float64) int {
	n := 0
	for limit := t + increment; t < limit; t += in.params.Dt {
		n++
	}
	return n
}

// Advance runs sub-steps from t until the simulated time reaches
// t+increment and returns the new time. Points are mutated in place and every
// spring's Length cache is refreshed before returning. Inconsistent input is
// rejected before any point is touched.
func (in *Integrator) Advance(points []dynamo.Point, springs []dynamo.Spring, t, increment float64) (float64, error) {
	if err := in.check(points, springs, t); err != nil {
		return t, err
	}
	if !(increment > 0) || math.IsInf(increment, 0) {
		return t, fmt.Errorf("increment must be positive, got %g: %w", increment, dynamo.ErrParameterBounds)
	}

	limit := t + increment
	for t < limit {
		in.step(points, springs, t)
		t += in.params.Dt
	}

	UpdateLengths(points, springs)
	return t, nil
}

// Step runs exactly one sub-step at time t and returns t+dt.
func (in *Integrator) Step(points []dynamo.Point, springs []dynamo.Spring, t float64) (float64, error) {
	if err := in.check(points, springs, t); err != nil {
		return t, err
	}
	in.step(points, springs, t)
	return t + in.params.Dt, nil
}

func (in *Integrator) check(points []dynamo.Point, springs []dynamo.Spring, t float64) error {
	if len(points) == 0 {
		return dynamo.ErrEmptyBody
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("time must be finite, got %g: %w", t, dynamo.ErrParameterBounds)
	}
	return dynamo.CheckIndices(len(points), springs)
}

func (in *Integrator) step(points []dynamo.Point, springs []dynamo.Spring, t float64) {
	ApplySpringForces(points, springs, in.params.Adjust(t))

	dt := in.params.Dt
	damp := in.dampening
	g := in.params.Gravity

	for i := range points {
		p := &points[i]
		fx, fy, fz := in.params.groundContact(p, p.FX, p.FY, p.FZ)

		ax := fx / p.Mass
		ay := fy/p.Mass + g
		az := fz / p.Mass

		p.FX, p.FY, p.FZ = 0, 0, 0

		p.VX = (ax*dt + p.VX) * damp
		p.VY = (ay*dt + p.VY) * damp
		p.VZ = (az*dt + p.VZ) * damp

		// velocity is a per-sub-step displacement here, not scaled by dt again
		p.X += p.VX
		p.Y += p.VY
		p.Z += p.VZ
	}
}
