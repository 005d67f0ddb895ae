// Package render turns a body into per-spring segments that a renderer can
// draw as cylinders. A segment's Key is its spring index, so a renderer can
// keep one node per key across frames.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/softbody/internal/dynamo"
)

// Up is the axis of an untransformed segment.
var Up = mgl64.Vec3{0, 1, 0}

type Segment struct {
	Key    int        `json:"key"`
	Center mgl64.Vec3 `json:"center"`
	// Axis is the unit direction from the first endpoint to the second,
	// or zero when the endpoints coincide.
	Axis   mgl64.Vec3 `json:"axis"`
	Length float64    `json:"length"`
	// Strain is (length - l0) / l0.
	Strain float64 `json:"strain"`
}

func NewSegment(key int, a, b mgl64.Vec3, l0 float64) Segment {
	d := b.Sub(a)
	l := d.Len()
	s := Segment{
		Key:    key,
		Center: a.Add(b).Mul(0.5),
		Length: l,
	}
	if l > 0 {
		s.Axis = d.Mul(1 / l)
	}
	if l0 > 0 {
		s.Strain = (l - l0) / l0
	}
	return s
}

func (s Segment) Start() mgl64.Vec3 { return s.Center.Sub(s.Axis.Mul(s.Length / 2)) }
func (s Segment) End() mgl64.Vec3   { return s.Center.Add(s.Axis.Mul(s.Length / 2)) }

// Rotation turns Up onto the segment axis.
func (s Segment) Rotation() mgl64.Quat {
	if s.Axis.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatBetweenVectors(Up, s.Axis)
}

// Transform maps a unit cylinder spanning y in [-0.5, 0.5] onto the segment.
func (s Segment) Transform() mgl64.Mat4 {
	t := mgl64.Translate3D(s.Center.X(), s.Center.Y(), s.Center.Z())
	return t.Mul4(s.Rotation().Mat4()).Mul4(mgl64.Scale3D(1, s.Length, 1))
}

func position(p dynamo.Point) mgl64.Vec3 { return mgl64.Vec3{p.X, p.Y, p.Z} }

// Segments appends one segment per spring of v to dst[:0].
func Segments(v dynamo.View, dst []Segment) []Segment {
	dst = dst[:0]
	for i := 0; i < v.NumSprings(); i++ {
		sp := v.Spring(i)
		a, b := position(v.Point(sp.P1)), position(v.Point(sp.P2))
		dst = append(dst, NewSegment(i, a, b, sp.L0))
	}
	return dst
}

// Points returns every point position of v.
func Points(v dynamo.View) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, v.NumPoints())
	for i := range out {
		out[i] = position(v.Point(i))
	}
	return out
}

// Bounds is the axis-aligned box around every point of v. An empty view
// returns two zero vectors.
func Bounds(v dynamo.View) (min, max mgl64.Vec3) {
	if v.NumPoints() == 0 {
		return
	}
	min = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < v.NumPoints(); i++ {
		p := position(v.Point(i))
		for k := 0; k < 3; k++ {
			min[k] = math.Min(min[k], p[k])
			max[k] = math.Max(max[k], p[k])
		}
	}
	return min, max
}
