package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/softbody/internal/dynamo"
)

func position(p dynamo.Point) mgl64.Vec3 { return mgl64.Vec3{p.X, p.Y, p.Z} }
func velocity(p dynamo.Point) mgl64.Vec3 { return mgl64.Vec3{p.VX, p.VY, p.VZ} }

// Centroid is the mass-weighted mean position.
func Centroid(v dynamo.View) mgl64.Vec3 {
	var c mgl64.Vec3
	var m float64
	for i := 0; i < v.NumPoints(); i++ {
		p := v.Point(i)
		c = c.Add(position(p).Mul(p.Mass))
		m += p.Mass
	}
	if m == 0 {
		return c
	}
	return c.Mul(1 / m)
}

// Momentum is Σ m·v. Velocities are per-sub-step displacements, so the
// units are kg·m per sub-step.
func Momentum(v dynamo.View) mgl64.Vec3 {
	var p mgl64.Vec3
	for i := 0; i < v.NumPoints(); i++ {
		pt := v.Point(i)
		p = p.Add(velocity(pt).Mul(pt.Mass))
	}
	return p
}

func KineticEnergy(v dynamo.View) float64 {
	var ke float64
	for i := 0; i < v.NumPoints(); i++ {
		p := v.Point(i)
		ke += 0.5 * p.Mass * velocity(p).LenSqr()
	}
	return ke
}

// SpringEnergy is the elastic energy against the undriven rest lengths,
// using the cached spring lengths.
func SpringEnergy(v dynamo.View) float64 {
	var e float64
	for i := 0; i < v.NumSprings(); i++ {
		s := v.Spring(i)
		d := s.Length - s.L0
		e += 0.5 * s.K * d * d
	}
	return e
}

// GravityEnergy is Σ m·|g|·y, zero at the ground plane.
func GravityEnergy(v dynamo.View, gravity float64) float64 {
	var e float64
	for i := 0; i < v.NumPoints(); i++ {
		p := v.Point(i)
		e += p.Mass * -gravity * p.Y
	}
	return e
}

func MinHeight(v dynamo.View) float64 {
	min := math.Inf(1)
	for i := 0; i < v.NumPoints(); i++ {
		min = math.Min(min, v.Point(i).Y)
	}
	return min
}

func MaxSpeed(v dynamo.View) float64 {
	var max float64
	for i := 0; i < v.NumPoints(); i++ {
		max = math.Max(max, v.Point(i).Speed())
	}
	return max
}

// Penetration is how far the lowest point sits below the ground plane.
func Penetration(v dynamo.View) float64 {
	return math.Max(0, -MinHeight(v))
}
