package metrics

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/physics"
)

// PeakForce is the largest spring force magnitude seen at any observation,
// evaluated against the breathing rest length at the observation time.
type PeakForce struct {
	name   string
	params physics.Params
	peak   float64
}

func NewPeakForce(p physics.Params) *PeakForce {
	return &PeakForce{name: "peak_force", params: p}
}

func (m *PeakForce) Name() string { return m.name }

func (m *PeakForce) Observe(v dynamo.View, t float64) {
	for i := 0; i < v.NumSprings(); i++ {
		m.peak = math.Max(m.peak, math.Abs(m.params.SpringForce(v, i, t)))
	}
}

func (m *PeakForce) Value() float64 { return m.peak }
func (m *PeakForce) Reset()         { m.peak = 0 }
