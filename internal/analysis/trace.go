package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/softbody/internal/sim"
)

// Field picks one scalar out of a trace sample.
type Field func(sim.Sample) float64

var Fields = map[string]Field{
	"height":  func(s sim.Sample) float64 { return s.Centroid.Y() },
	"lowest":  func(s sim.Sample) float64 { return s.MinHeight },
	"kinetic": func(s sim.Sample) float64 { return s.KineticEnergy },
	"speed":   func(s sim.Sample) float64 { return s.MaxSpeed },
}

// Extract returns f over samples, dropping the leading skip fraction.
func Extract(samples []sim.Sample, f Field, skip float64) []float64 {
	start := int(math.Floor(float64(len(samples)) * skip))
	if start < 0 {
		start = 0
	}
	if start > len(samples) {
		start = len(samples)
	}
	out := make([]float64, 0, len(samples)-start)
	for _, s := range samples[start:] {
		out = append(out, f(s))
	}
	return out
}

// Report summarises the breathing response seen in one trace field.
type Report struct {
	Field    string
	Samples  int
	Interval float64
	Mean     float64
	StdDev   float64
	// Measured is the dominant frequency in Hz.
	Measured float64
	// Expected is the drive frequency in Hz.
	Expected float64
}

// Breathing measures the dominant frequency of the named field and compares
// it with a drive of omega rad/s. The samples must be evenly spaced.
func Breathing(samples []sim.Sample, field string, omega, skip float64) (*Report, error) {
	f, ok := Fields[field]
	if !ok {
		return nil, fmt.Errorf("unknown trace field %q", field)
	}

	data := Extract(samples, f, skip)
	if len(data) < minSamples {
		return nil, fmt.Errorf("need at least %d samples, got %d", minSamples, len(data))
	}
	interval := (samples[len(samples)-1].Time - samples[0].Time) / float64(len(samples)-1)

	measured, err := DominantFrequency(data, interval)
	if err != nil {
		return nil, err
	}
	mean, std := stat.MeanStdDev(data, nil)
	return &Report{
		Field:    field,
		Samples:  len(data),
		Interval: interval,
		Mean:     mean,
		StdDev:   std,
		Measured: measured,
		Expected: omega / (2 * math.Pi),
	}, nil
}

// Resolution is the width of one spectrum bin in Hz.
func (r *Report) Resolution() float64 {
	return 1 / (float64(r.Samples) * r.Interval)
}
