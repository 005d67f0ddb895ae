package physics

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

// ApplySpringForces accumulates every spring's force onto its endpoints.
// adjust multiplies each rest length (see Params.Adjust). A positive force
// means the spring is stretched and pulls its endpoints together.
// Endpoint indices must already be validated.
func ApplySpringForces(points []dynamo.Point, springs []dynamo.Spring, adjust float64) {
	for i := range springs {
		applySpring(points, &springs[i], adjust)
	}
}

func applySpring(points []dynamo.Point, s *dynamo.Spring, adjust float64) {
	p1, p2 := &points[s.P1], &points[s.P2]

	rx := p1.X - p2.X
	ry := p1.Y - p2.Y
	rz := p1.Z - p2.Z
	dist := math.Sqrt(rx*rx + ry*ry + rz*rz)
	if dist < MinSpringDistance {
		// coincident endpoints have no direction
		return
	}

	f := s.K * (dist - s.L0*adjust)

	dx := f * rx / dist
	p1.FX -= dx
	p2.FX += dx

	dy := f * ry / dist
	p1.FY -= dy
	p2.FY += dy

	dz := f * rz / dist
	p1.FZ -= dz
	p2.FZ += dz
}

// SpringForce returns the signed force magnitude of spring i of v at time t,
// or 0 for a degenerate spring.
func (p Params) SpringForce(v dynamo.View, i int, t float64) float64 {
	s := v.Spring(i)
	dist := dynamo.Distance(v.Point(s.P1), v.Point(s.P2))
	if dist < MinSpringDistance {
		return 0
	}
	return s.K * (dist - p.EffectiveRestLength(s.L0, t))
}

// UpdateLengths refreshes the diagnostic length cache of every spring.
func UpdateLengths(points []dynamo.Point, springs []dynamo.Spring) {
	for i := range springs {
		s := &springs[i]
		s.Length = dynamo.Distance(points[s.P1], points[s.P2])
	}
}
