package metrics

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

// Stability is the fraction of observations in which every coordinate stays
// within threshold and every point is finite.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(v dynamo.View, t float64) {
	s.samples++
	for i := 0; i < v.NumPoints(); i++ {
		p := v.Point(i)
		if !p.IsValid() || math.Abs(p.X) > s.threshold || math.Abs(p.Y) > s.threshold || math.Abs(p.Z) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// MaxPenetration records the deepest any point has gone below the ground.
type MaxPenetration struct {
	name  string
	depth float64
}

func NewMaxPenetration() *MaxPenetration {
	return &MaxPenetration{name: "max_penetration"}
}

func (m *MaxPenetration) Name() string { return m.name }

func (m *MaxPenetration) Observe(v dynamo.View, t float64) {
	m.depth = math.Max(m.depth, Penetration(v))
}

func (m *MaxPenetration) Value() float64 { return m.depth }

func (m *MaxPenetration) Reset() { m.depth = 0 }
