package viz

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/softbody/internal/render"
)

type Edge struct {
	Start, End mgl64.Vec3
}

// Wireframe is a list of world-space edges ready for projection.
type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe               { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p mgl64.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                  { w.Edges = w.Edges[:0] }

// AddSegments adds one edge per spring segment.
func (w *Wireframe) AddSegments(segs []render.Segment) {
	for _, s := range segs {
		w.AddEdge(s.Start(), s.End())
	}
}

// AddGround adds an n×n grid of lines on the y=0 plane centred on (cx, cz).
func (w *Wireframe) AddGround(cx, cz, size float64, n int) {
	if n < 1 {
		return
	}
	half := size / 2
	for i := 0; i <= n; i++ {
		f := -half + size*float64(i)/float64(n)
		w.AddEdge(mgl64.Vec3{cx + f, 0, cz - half}, mgl64.Vec3{cx + f, 0, cz + half})
		w.AddEdge(mgl64.Vec3{cx - half, 0, cz + f}, mgl64.Vec3{cx + half, 0, cz + f})
	}
}

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
}

// Render3D draws the wireframe to the canvas, far edges first. An edge is
// drawn when either endpoint is visible and both are in front of the camera.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	view, proj := cam.ViewProjection(cw, ch)

	edges := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := project(e.Start, view, proj, cw, ch)
		x2, y2, d2, v2 := project(e.End, view, proj, cw, ch)
		if d1 <= 0 || d2 <= 0 || !(v1 || v2) {
			continue
		}
		edges = append(edges, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Depth > edges[j].Depth })
	for _, e := range edges {
		if e.X1 == e.X2 && e.Y1 == e.Y2 {
			c.Set(e.X1, e.Y1)
		} else {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
}
