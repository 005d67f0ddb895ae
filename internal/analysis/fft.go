package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// minSamples is the shortest trace with a bin between DC and Nyquist.
const minSamples = 4

// Hann tapers data in place with a Hann window.
func Hann(data []float64) {
	n := len(data)
	if n < 2 {
		return
	}
	for i := range data {
		data[i] *= 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
}

// PowerSpectrum returns the magnitude of bins 0..n/2-1 of data after the
// mean is removed and a Hann window applied. data is not modified.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := stat.Mean(data, nil)
	x := make([]float64, len(data))
	for i, v := range data {
		x[i] = v - mean
	}
	Hann(x)

	spectrum := fft.FFTReal(x)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin
// of a trace sampled every interval seconds. Resolution is 1/(n·interval).
func DominantFrequency(data []float64, interval float64) (float64, error) {
	if len(data) < minSamples {
		return 0, fmt.Errorf("need at least %d samples, got %d", minSamples, len(data))
	}
	if !(interval > 0) {
		return 0, fmt.Errorf("sample interval must be positive, got %g", interval)
	}

	ps := PowerSpectrum(data)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return float64(best) / (float64(len(data)) * interval), nil
}
