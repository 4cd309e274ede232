package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitude of each real FFT coefficient,
// len(series)/2+1 values from DC upward.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	fft := fourier.NewFFT(len(series))
	coeff := fft.Coefficients(nil, series)

	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in Hz of a series
// sampled every dt seconds, and its magnitude.
func DominantFrequency(series []float64, dt float64) (freq, power float64) {
	if len(series) < 4 || dt <= 0 {
		return 0, 0
	}

	mean := stat.Mean(series, nil)
	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	idx := floats.MaxIdx(ps[1:]) + 1

	fft := fourier.NewFFT(len(series))
	return fft.Freq(idx) / dt, ps[idx]
}
