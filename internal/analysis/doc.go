// Package analysis looks at sampled traces of a running body.
//
// A trace is the list of samples the scheduler records after every call.
// [Breathing] pulls one field out of it, drops the initial transient and
// finds the dominant frequency, which for a settled body should sit within
// one bin of the actuation frequency ω/2π:
//
//	res, _ := s.Run(ctx, sim.RunConfig{Increment: 1e-5, Duration: 0.02})
//	rep, err := analysis.Breathing(res.Samples, "height", p.OscillationFrequency, 0.25)
//
// Spectra are taken with a Hann window after removing the mean, so the
// DC bin is never reported.
package analysis
