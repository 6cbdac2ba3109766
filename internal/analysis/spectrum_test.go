package analysis

import (
	"math"
	"testing"
)

func sine(freq, dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) * dt)
	}
	return out
}

func TestPowerSpectrumPeaksAtSignalFrequency(t *testing.T) {
	dt := 0.01
	ps := PowerSpectrum(sine(2.0, dt, 500))

	if len(ps) != 250 {
		t.Fatalf("expected 250 bins, got %d", len(ps))
	}

	// 2 hz over a 5 s window lands exactly in bin 10.
	peak := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if peak != 10 {
		t.Errorf("peak bin = %d, want 10", peak)
	}
}

func TestPowerSpectrumShortInput(t *testing.T) {
	if ps := PowerSpectrum(nil); ps != nil {
		t.Errorf("expected nil spectrum for empty input, got %v", ps)
	}
	if ps := PowerSpectrum([]float64{1.0}); ps != nil {
		t.Errorf("expected nil spectrum for one sample, got %v", ps)
	}
}

func TestPowerSpectrumTruncatesOddInput(t *testing.T) {
	ps := PowerSpectrum(sine(1.0, 0.01, 501))
	if len(ps) != 250 {
		t.Errorf("expected 250 bins from 501 samples, got %d", len(ps))
	}
}

func TestDominantRecoversFrequency(t *testing.T) {
	cases := []struct {
		freq float64
		dt   float64
		n    int
	}{
		{2.0, 0.01, 500},
		{0.5, 0.01, 1000},
		{5.0, 0.005, 800},
	}

	for _, tc := range cases {
		ps := PowerSpectrum(sine(tc.freq, tc.dt, tc.n))
		got := Dominant(ps, tc.dt)

		binWidth := 1.0 / (float64(tc.n) * tc.dt)
		if math.Abs(got-tc.freq) > binWidth {
			t.Errorf("Dominant(%v hz, dt=%v) = %v, want within %v", tc.freq, tc.dt, got, binWidth)
		}
	}
}

func TestDominantFlatSpectrum(t *testing.T) {
	if got := Dominant([]float64{1, 0, 0, 0}, 0.01); got != 0 {
		t.Errorf("expected 0 for dc-only spectrum, got %v", got)
	}
	if got := Dominant(nil, 0.01); got != 0 {
		t.Errorf("expected 0 for empty spectrum, got %v", got)
	}
}
