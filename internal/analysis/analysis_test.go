package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/softbody/internal/sim"
)

func sine(n int, hz, interval, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + math.Sin(2*math.Pi*hz*float64(i)*interval)
	}
	return out
}

func TestPowerSpectrumPeak(t *testing.T) {
	// 1000 samples at 1 kHz puts 50 Hz exactly on bin 50
	ps := PowerSpectrum(sine(1000, 50, 1e-3, 3))
	if len(ps) != 500 {
		t.Fatalf("expected 500 bins, got %d", len(ps))
	}

	peak := 0
	for k := range ps {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if peak != 50 {
		t.Errorf("expected peak at bin 50, got %d", peak)
	}
	if ps[0] > ps[peak]*1e-2 {
		t.Errorf("offset should be removed, DC bin = %v", ps[0])
	}
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		hz       float64
		interval float64
	}{
		{"power of two", 1024, 64, 1.0 / 1024},
		{"not a power of two", 600, 50, 1e-3},
		{"fast drive", 2000, 1591.5, 1e-5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DominantFrequency(sine(tt.n, tt.hz, tt.interval, 0), tt.interval)
			if err != nil {
				t.Fatal(err)
			}
			res := 1 / (float64(tt.n) * tt.interval)
			if math.Abs(got-tt.hz) > res {
				t.Errorf("got %v Hz, want %v ± %v", got, tt.hz, res)
			}
		})
	}
}

func TestDominantFrequencyErrors(t *testing.T) {
	if _, err := DominantFrequency([]float64{1, 2, 3}, 1); err == nil {
		t.Error("expected error for short trace")
	}
	if _, err := DominantFrequency(make([]float64, 8), 0); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestHann(t *testing.T) {
	x := []float64{1, 1, 1, 1, 1}
	Hann(x)
	if x[0] != 0 || math.Abs(x[4]) > 1e-15 || x[2] != 1 {
		t.Errorf("unexpected window %v", x)
	}
}

func TestExtract(t *testing.T) {
	samples := make([]sim.Sample, 10)
	for i := range samples {
		samples[i].MinHeight = float64(i)
	}

	got := Extract(samples, Fields["lowest"], 0.3)
	if len(got) != 7 || got[0] != 3 {
		t.Errorf("unexpected extract %v", got)
	}
	if len(Extract(samples, Fields["lowest"], 1.5)) != 0 {
		t.Error("skipping everything should give an empty trace")
	}
}

func TestBreathing(t *testing.T) {
	const interval = 1e-3
	samples := make([]sim.Sample, 1001)
	for i := range samples {
		ti := float64(i) * interval
		samples[i].Time = ti
		samples[i].Centroid[1] = 0.05 + 0.001*math.Sin(2*math.Pi*50*ti)
	}

	rep, err := Breathing(samples, "height", 2*math.Pi*50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rep.Interval-interval) > 1e-12 {
		t.Errorf("interval = %v", rep.Interval)
	}
	if math.Abs(rep.Expected-50) > 1e-9 {
		t.Errorf("expected = %v", rep.Expected)
	}
	if math.Abs(rep.Measured-rep.Expected) > rep.Resolution() {
		t.Errorf("measured %v Hz, expected %v ± %v", rep.Measured, rep.Expected, rep.Resolution())
	}
	if math.Abs(rep.Mean-0.05) > 1e-4 {
		t.Errorf("mean = %v", rep.Mean)
	}

	if _, err := Breathing(samples, "volume", 1, 0); err == nil {
		t.Error("expected error for unknown field")
	}
	if _, err := Breathing(samples[:3], "height", 1, 0); err == nil {
		t.Error("expected error for short trace")
	}
}
