// Package analysis holds offline signal analysis for saved runs.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of each frequency bin of the
// Hann-windowed input, up to the Nyquist frequency. Odd-length input is
// truncated by one sample so bin frequencies stay exact.
func PowerSpectrum(samples []float64) []float64 {
	n := len(samples) &^ 1
	if n < 2 {
		return nil
	}

	windowed := make([]float64, n)
	for i := 0; i < n; i++ {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = samples[i] * w
	}

	spec := fft.FFTReal(windowed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// Dominant returns the strongest nonzero frequency in hz for a spectrum
// produced by PowerSpectrum, given the sample spacing dt. A flat or
// empty spectrum yields 0.
func Dominant(ps []float64, dt float64) float64 {
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	maxIdx := 0
	maxPower := 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0
	}

	// Bin i completes i cycles over the len(ps)*2 input samples.
	return float64(maxIdx) / (float64(len(ps)*2) * dt)
}
