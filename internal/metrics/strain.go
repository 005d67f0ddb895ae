package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/softbody/internal/dynamo"
)

// SpringStrains fills dst with |length - l0| / l0 per spring.
func SpringStrains(v dynamo.View, dst []float64) []float64 {
	dst = dst[:0]
	for i := 0; i < v.NumSprings(); i++ {
		s := v.Spring(i)
		dst = append(dst, math.Abs(s.Length-s.L0)/s.L0)
	}
	return dst
}

// Strain averages the mean spring strain over observations.
type Strain struct {
	name    string
	buf     []float64
	sum     float64
	samples int
}

func NewStrain() *Strain {
	return &Strain{
		name: "strain",
	}
}

func (s *Strain) Name() string {
	return s.name
}

func (s *Strain) Observe(v dynamo.View, t float64) {
	if v.NumSprings() == 0 {
		return
	}
	s.buf = SpringStrains(v, s.buf)
	s.sum += stat.Mean(s.buf, nil)
	s.samples++
}

func (s *Strain) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Strain) Reset() {
	s.sum = 0
	s.samples = 0
}
