package dynamo

import (
	"fmt"
	"math"
)

// Point is a point mass. Its identity is its index in the owning slice.
// FX, FY, FZ accumulate force during a sub-step and read zero between sub-steps.
type Point struct {
	X, Y, Z    float64 // m
	VX, VY, VZ float64 // m/s
	Mass       float64 // kg
	FX, FY, FZ float64 // N
}

// NewPoint returns a point at rest with a clear force accumulator.
func NewPoint(x, y, z, mass float64) Point {
	return Point{X: x, Y: y, Z: z, Mass: mass}
}

func (p Point) Speed() float64 {
	return math.Sqrt(p.VX*p.VX + p.VY*p.VY + p.VZ*p.VZ)
}

func (p Point) IsValid() bool {
	for _, v := range [...]float64{p.X, p.Y, p.Z, p.VX, p.VY, p.VZ} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Spring connects two points by index. K, P1, P2 and L0 never change after
// creation; Length is a diagnostic cache and is never read by the integrator.
type Spring struct {
	K      float64 // N/m
	P1, P2 int
	L0     float64 // m
	Length float64 // m
}

// NewSpring builds a spring between points[p1] and points[p2] whose rest
// length is their current distance.
func NewSpring(points []Point, k float64, p1, p2 int) (Spring, error) {
	if p1 < 0 || p1 >= len(points) || p2 < 0 || p2 >= len(points) {
		return Spring{}, fmt.Errorf("spring %d-%d with %d points: %w", p1, p2, len(points), ErrIndexOutOfRange)
	}
	l := Distance(points[p1], points[p2])
	s := Spring{K: k, P1: p1, P2: p2, L0: l, Length: l}
	if err := s.check(len(points)); err != nil {
		return Spring{}, err
	}
	return s, nil
}

func (s Spring) check(n int) error {
	if s.P1 < 0 || s.P1 >= n || s.P2 < 0 || s.P2 >= n {
		return fmt.Errorf("spring %d-%d with %d points: %w", s.P1, s.P2, n, ErrIndexOutOfRange)
	}
	if s.P1 == s.P2 || !(s.L0 > 0) {
		return fmt.Errorf("spring %d-%d (l0=%g): %w", s.P1, s.P2, s.L0, ErrDegenerateSpring)
	}
	if !(s.K > 0) {
		return fmt.Errorf("spring %d-%d stiffness %g: %w", s.P1, s.P2, s.K, ErrParameterBounds)
	}
	return nil
}

// Validate checks every invariant of a point/spring pair of arenas.
func Validate(points []Point, springs []Spring) error {
	if len(points) == 0 {
		return ErrEmptyBody
	}
	for i := range points {
		if !(points[i].Mass > 0) {
			return fmt.Errorf("point %d mass %g: %w", i, points[i].Mass, ErrInvalidMass)
		}
	}
	for i := range springs {
		if err := springs[i].check(len(points)); err != nil {
			return fmt.Errorf("spring %d: %w", i, err)
		}
	}
	return nil
}

// CheckIndices is the cheap subset of Validate run on every integrator entry.
func CheckIndices(n int, springs []Spring) error {
	for i := range springs {
		s := &springs[i]
		if s.P1 < 0 || s.P1 >= n || s.P2 < 0 || s.P2 >= n {
			return fmt.Errorf("spring %d endpoints %d-%d with %d points: %w", i, s.P1, s.P2, n, ErrIndexOutOfRange)
		}
	}
	return nil
}

// View is read-only access to a body for renderers and metrics.
// Accessors return copies, so holders cannot mutate the arenas.
type View interface {
	NumPoints() int
	Point(i int) Point
	NumSprings() int
	Spring(i int) Spring
}

// Body owns the point and spring arenas of one simulated soft body.
type Body struct {
	Points  []Point
	Springs []Spring
}

func (b *Body) NumPoints() int      { return len(b.Points) }
func (b *Body) Point(i int) Point   { return b.Points[i] }
func (b *Body) NumSprings() int     { return len(b.Springs) }
func (b *Body) Spring(i int) Spring { return b.Springs[i] }

// Validate checks the body's invariants; see Validate.
func (b *Body) Validate() error { return Validate(b.Points, b.Springs) }

// IsValid reports whether every position and velocity is finite.
func (b *Body) IsValid() bool { return validPoints(b.Points) }

// Clone deep-copies both arenas.
func (b *Body) Clone() *Body {
	c := &Body{
		Points:  make([]Point, len(b.Points)),
		Springs: make([]Spring, len(b.Springs)),
	}
	copy(c.Points, b.Points)
	copy(c.Springs, b.Springs)
	return c
}

func validPoints(points []Point) bool {
	for i := range points {
		if !points[i].IsValid() {
			return false
		}
	}
	return true
}
