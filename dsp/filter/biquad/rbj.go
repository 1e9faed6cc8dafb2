package biquad

import (
	"fmt"
	"math"
)

// Bandpass computes constant-peak-gain bandpass coefficients from the RBJ
// cookbook. Unlike the constant-skirt-gain variant where peak gain equals Q,
// the peak gain at the center frequency is always 1.0 regardless of Q,
// making it suitable for filter bank summation where bands must not amplify.
func Bandpass(freq, q, sampleRate float64) (Coefficients, error) {
	w0, err := normalizedFreq(freq, sampleRate)
	if err != nil {
		return Coefficients{}, err
	}

	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return Coefficients{}, fmt.Errorf("biquad: Q must be > 0: %g", q)
	}

	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	a0 := 1 + alpha
	inv := 1.0 / a0

	return Coefficients{
		B0: alpha * inv,
		B1: 0,
		B2: -alpha * inv,
		A1: -2 * cw * inv,
		A2: (1 - alpha) * inv,
	}, nil
}

// Lowpass computes RBJ cookbook low-pass coefficients. Q controls resonance
// near the cutoff; ButterworthQ yields a maximally flat passband.
func Lowpass(freq, q, sampleRate float64) (Coefficients, error) {
	w0, err := normalizedFreq(freq, sampleRate)
	if err != nil {
		return Coefficients{}, err
	}

	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return Coefficients{}, fmt.Errorf("biquad: Q must be > 0: %g", q)
	}

	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	a0 := 1 + alpha
	inv := 1.0 / a0

	return Coefficients{
		B0: ((1 - cw) * 0.5) * inv,
		B1: (1 - cw) * inv,
		B2: ((1 - cw) * 0.5) * inv,
		A1: (-2 * cw) * inv,
		A2: (1 - alpha) * inv,
	}, nil
}

// ButterworthQ is the Q of a maximally flat 2nd-order lowpass, 1/sqrt(2).
const ButterworthQ = 0.7071067811865476

func normalizedFreq(freq, sampleRate float64) (float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("biquad: sample rate must be > 0: %g", sampleRate)
	}

	w0 := 2 * math.Pi * freq / sampleRate
	if w0 <= 0 || w0 >= math.Pi {
		return 0, fmt.Errorf("biquad: frequency %g Hz outside (0, %g) at %g Hz", freq, sampleRate/2, sampleRate)
	}

	return w0, nil
}
