package viz

import (
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/render"
)

const (
	groundSize  = 0.6
	groundLines = 6
)

// DrawBody clears c and draws every spring of v, optionally over a ground
// grid centred under the camera target.
func DrawBody(c *Canvas, cam *Camera, v dynamo.View, ground bool) {
	c.Clear()
	w := NewWireframe()
	if ground {
		w.AddGround(cam.Target.X(), cam.Target.Z(), groundSize, groundLines)
	}
	w.AddSegments(render.Segments(v, nil))
	Render3D(c, w, cam)
}

// Frame draws v into a fresh w×h canvas with the camera fitted to the body
// and returns the text.
func Frame(v dynamo.View, w, h int, ground bool) string {
	c := NewCanvas(w, h)
	cam := NewCamera()
	cam.Frame(render.Bounds(v))
	DrawBody(c, cam, v, ground)
	return c.String()
}
