package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	minDistance = 0.05
	maxDistance = 50.0
	maxPitch    = math.Pi/2 - 0.05
)

// Camera orbits a target point and projects world coordinates with a
// perspective lens. Angles are in radians, y is up.
type Camera struct {
	Target   mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Distance float64
	// FOV is the vertical field of view in degrees.
	FOV       float64
	Near, Far float64
}

func NewCamera() *Camera {
	return &Camera{
		Target:   mgl64.Vec3{0.05, 0.05, 0.05},
		Yaw:      0.6,
		Pitch:    0.35,
		Distance: 0.6,
		FOV:      45,
		Near:     0.01,
		Far:      100,
	}
}

func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

func (c *Camera) ZoomIn()  { c.Distance = math.Max(minDistance, c.Distance/1.2) }
func (c *Camera) ZoomOut() { c.Distance = math.Min(maxDistance, c.Distance*1.2) }

// Frame aims at the centre of a bounding box and backs off far enough to
// keep all of it in view.
func (c *Camera) Frame(min, max mgl64.Vec3) {
	c.Target = min.Add(max).Mul(0.5)
	r := max.Sub(min).Len() / 2
	fit := r / math.Sin(mgl64.DegToRad(c.FOV)/2)
	c.Distance = mgl64.Clamp(fit*1.2, minDistance, maxDistance)
}

// Eye is the camera position.
func (c *Camera) Eye() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	offset := mgl64.Vec3{
		c.Distance * cp * math.Sin(c.Yaw),
		c.Distance * math.Sin(c.Pitch),
		c.Distance * cp * math.Cos(c.Yaw),
	}
	return c.Target.Add(offset)
}

// ViewProjection returns the view and projection matrices for a w×h viewport.
func (c *Camera) ViewProjection(w, h int) (view, proj mgl64.Mat4) {
	aspect := 1.0
	if h > 0 {
		aspect = float64(w) / float64(h)
	}
	view = mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 1, 0})
	proj = mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
	return view, proj
}

// Project maps p to viewport coordinates with y growing downward. depth is
// the distance along the view direction; ok is false for points behind the
// camera or outside the viewport.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (x, y int, depth float64, ok bool) {
	view, proj := c.ViewProjection(w, h)
	return project(p, view, proj, w, h)
}

func project(p mgl64.Vec3, view, proj mgl64.Mat4, w, h int) (x, y int, depth float64, ok bool) {
	eye := view.Mul4x1(p.Vec4(1))
	depth = -eye.Z()
	if depth <= 0 {
		return 0, 0, depth, false
	}
	win := mgl64.Project(p, view, proj, 0, 0, w, h)
	x = int(math.Floor(win.X()))
	y = h - 1 - int(math.Floor(win.Y()))
	return x, y, depth, x >= 0 && x < w && y >= 0 && y < h
}
