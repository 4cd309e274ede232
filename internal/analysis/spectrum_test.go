package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrum(t *testing.T) {
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil for empty series")
	}

	series := make([]float64, 64)
	for i := range series {
		series[i] = math.Cos(2 * math.Pi * 8 * float64(i) / 64)
	}
	ps := PowerSpectrum(series)
	if len(ps) != 33 {
		t.Fatalf("expected 33 coefficients, got %d", len(ps))
	}
	for i, v := range ps {
		if i == 8 {
			continue
		}
		if v > ps[8]*1e-9 {
			t.Errorf("unexpected power %f at bin %d", v, i)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	const dt = 0.01
	series := make([]float64, 512)
	for i := range series {
		series[i] = 5 + math.Sin(2*math.Pi*2*float64(i)*dt)
	}

	freq, power := DominantFrequency(series, dt)
	resolution := 1 / (float64(len(series)) * dt)
	if math.Abs(freq-2) > resolution {
		t.Errorf("expected ~2 Hz, got %f", freq)
	}
	if power <= 0 {
		t.Error("expected positive power")
	}
}

func TestDominantFrequencyShortSeries(t *testing.T) {
	if f, p := DominantFrequency([]float64{1, 2}, 0.1); f != 0 || p != 0 {
		t.Errorf("expected zero for short series, got %f, %f", f, p)
	}
}
