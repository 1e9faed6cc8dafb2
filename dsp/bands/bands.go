package bands

import (
	"fmt"
	"math"
)

// LogSpaced returns count center frequencies between minHz and maxHz
// (inclusive) with equal ratios between consecutive values:
//
//	f[i] = exp(ln(minHz) + i*(ln(maxHz)-ln(minHz))/(count-1))
//
// The result is strictly increasing with f[0] = minHz and
// f[count-1] = maxHz up to floating-point rounding.
func LogSpaced(minHz, maxHz float64, count int) ([]float64, error) {
	if minHz <= 0 || math.IsNaN(minHz) || math.IsInf(minHz, 0) {
		return nil, fmt.Errorf("bands: min frequency must be > 0: %g", minHz)
	}

	if maxHz <= minHz || math.IsNaN(maxHz) || math.IsInf(maxHz, 0) {
		return nil, fmt.Errorf("bands: max frequency must be > min (%g): %g", minHz, maxHz)
	}

	if count < 2 {
		return nil, fmt.Errorf("bands: count must be >= 2: %d", count)
	}

	logMin := math.Log(minHz)
	step := (math.Log(maxHz) - logMin) / float64(count-1)

	out := make([]float64, count)
	for i := range out {
		out[i] = math.Exp(logMin + float64(i)*step)
	}

	// Pin the endpoints exactly; Exp/Log round-trips can drift in the
	// last few ulps.
	out[0] = minHz
	out[count-1] = maxHz

	return out, nil
}
