package sim

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/softbody/internal/dynamo"
)

// Advancer moves a body forward in simulated time. *physics.Integrator
// satisfies it.
type Advancer interface {
	Advance(points []dynamo.Point, springs []dynamo.Spring, t, increment float64) (float64, error)
	Substeps(t, increment float64) int
}

type Metric interface {
	Name() string
	Observe(v dynamo.View, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every scheduler call.
type Observer interface {
	OnCall(v dynamo.View, t float64)
}

type RunConfig struct {
	// Increment is the simulated time requested per call.
	Increment float64
	Duration  float64
	// ValidateState stops the run when a call leaves NaN or Inf behind.
	ValidateState bool
}

// Sample is the body summary recorded after each call.
type Sample struct {
	Time          float64
	Centroid      mgl64.Vec3
	MinHeight     float64
	KineticEnergy float64
	MaxSpeed      float64
}

// CallStats describes one scheduler call.
type CallStats struct {
	Call     int
	Substeps int
	Elapsed  time.Duration
	// Throughput is spring evaluations per wall-clock second.
	Throughput float64
}

type Result struct {
	Samples           []Sample
	Calls             int
	Substeps          int64
	SpringEvaluations int64
	Throughput        []float64
	Elapsed           time.Duration
	FinalTime         float64
	Metrics           map[string]float64
}

// Heights returns the min-height trace, handy for plotting.
func (r *Result) Heights() []float64 {
	h := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		h[i] = s.MinHeight
	}
	return h
}

// Times returns the simulated time of every sample.
func (r *Result) Times() []float64 {
	t := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		t[i] = s.Time
	}
	return t
}
