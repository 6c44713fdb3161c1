// Package analysis post-processes recorded metric series, mainly to
// find the oscillation frequencies of the water surface.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum is one-sided: Freqs[i] in Hz against Power[i], DC excluded.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// PowerSpectrum computes the windowed power spectrum of a series
// sampled at interval dt. The mean is removed first so a constant
// offset does not swamp the low bins.
func PowerSpectrum(series []float64, dt float64) (*Spectrum, error) {
	if len(series) < 4 {
		return nil, fmt.Errorf("series too short for spectrum: %d samples", len(series))
	}
	if dt <= 0 {
		return nil, fmt.Errorf("sample interval must be positive, got %g", dt)
	}

	n := len(series)
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	window := hann(n)
	buf := make([]float64, n)
	for i, v := range series {
		buf[i] = (v - mean) * window[i]
	}

	spectrum := fft.FFTReal(buf)

	bins := n / 2
	out := &Spectrum{
		Freqs: make([]float64, 0, bins-1),
		Power: make([]float64, 0, bins-1),
	}
	df := 1.0 / (dt * float64(n))
	for i := 1; i < bins; i++ {
		out.Freqs = append(out.Freqs, df*float64(i))
		out.Power = append(out.Power, cmplx.Abs(spectrum[i]))
	}
	return out, nil
}

// DominantFrequency returns the frequency of the strongest bin.
func (s *Spectrum) DominantFrequency() float64 {
	best := 0
	for i := range s.Power {
		if s.Power[i] > s.Power[best] {
			best = i
		}
	}
	if len(s.Freqs) == 0 {
		return 0
	}
	return s.Freqs[best]
}
