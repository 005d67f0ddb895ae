package physics

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

// groundContact applies the floor to a point below y = 0 and returns the
// adjusted force. The floor is a one-sided spring of stiffness
// GroundStiffness. If the horizontal force cannot overcome |fy·μ| the point
// sticks: horizontal force and velocity are zeroed. Otherwise fy·μ is
// subtracted from both horizontal components.
func (p Params) groundContact(pt *dynamo.Point, fx, fy, fz float64) (float64, float64, float64) {
	if !p.GroundEnabled || pt.Y >= 0 {
		return fx, fy, fz
	}

	fy += -p.GroundStiffness * pt.Y

	fh := math.Sqrt(fx*fx + fz*fz)
	if fh < math.Abs(fy*p.Friction) {
		pt.VX, pt.VZ = 0, 0
		return 0, fy, 0
	}
	// not opposed to the direction of motion
	return fx - fy*p.Friction, fy, fz - fy*p.Friction
}
