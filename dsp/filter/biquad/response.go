package biquad

import (
	"math"
	"math/cmplx"
)

// Magnitude evaluates |H(e^jw)| of the section's transfer function at the
// given frequency. Useful for verifying filter designs.
func (c Coefficients) Magnitude(freq, sampleRate float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := complex(1, 0) + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2

	return cmplx.Abs(num / den)
}
