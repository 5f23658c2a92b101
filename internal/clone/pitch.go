package clone

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Voiced fundamental frequency search range in Hz.
const (
	pitchFloorHz   = 50.0
	pitchCeilingHz = 500.0
	// pitchDefaultHz is assumed when neither estimator finds a peak.
	pitchDefaultHz = 150.0
)

// EstimatePitch returns the fundamental frequency of mono samples in Hz.
// Autocorrelation is tried first; when it finds no credible peak the spectrum
// is scanned directly. Unvoiced or empty input gets the default.
func EstimatePitch(samples []float64, sampleRate int) float64 {
	if len(samples) == 0 || sampleRate <= 0 {
		return pitchDefaultHz
	}
	if hz := pitchByAutocorrelation(samples, sampleRate); hz > 0 {
		return hz
	}
	if hz := pitchBySpectrum(samples, sampleRate); hz > 0 {
		return hz
	}
	return pitchDefaultHz
}

// pitchByAutocorrelation scans lags covering the voiced range and picks the
// strongest normalized peak. Returns 0 when no lag clears the voicing
// threshold.
func pitchByAutocorrelation(samples []float64, sampleRate int) float64 {
	minLag := int(float64(sampleRate) / pitchCeilingHz)
	maxLag := int(float64(sampleRate) / pitchFloorHz)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(samples) {
		maxLag = len(samples) - 1
	}
	if maxLag <= minLag {
		return 0
	}

	var energy float64
	for _, s := range samples {
		energy += s * s
	}
	if energy == 0 {
		return 0
	}

	bestLag := 0
	bestScore := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var sum float64
		for i := 0; i+lag < len(samples); i++ {
			sum += samples[i] * samples[i+lag]
		}
		score := sum / energy
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}
	// Below this the signal is noise-like rather than periodic.
	if bestScore < 0.3 || bestLag == 0 {
		return 0
	}
	return float64(sampleRate) / float64(bestLag)
}

// pitchBySpectrum picks the strongest FFT bin inside the voiced range.
func pitchBySpectrum(samples []float64, sampleRate int) float64 {
	fft := fourier.NewFFT(len(samples))
	coeffs := fft.Coefficients(nil, samples)

	bestHz := 0.0
	bestMag := 0.0
	for i := 1; i < len(coeffs); i++ {
		hz := fft.Freq(i) * float64(sampleRate)
		if hz < pitchFloorHz || hz > pitchCeilingHz {
			continue
		}
		if mag := cmplx.Abs(coeffs[i]); mag > bestMag {
			bestMag = mag
			bestHz = hz
		}
	}
	if bestMag == 0 {
		return 0
	}
	return bestHz
}
