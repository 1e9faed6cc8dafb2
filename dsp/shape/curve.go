package shape

import (
	"math"
	"sync"
)

// TableSize is the number of entries in every shaping table.
const TableSize = 65536

// Curve is a sampled transfer function over the input range [-1, 1].
// Lookups interpolate linearly between adjacent table entries; inputs
// outside the range clamp to the first or last entry.
type Curve struct {
	table []float64
}

// NewCurve samples fn at TableSize points across [-1, 1].
func NewCurve(fn func(x float64) float64) *Curve {
	table := make([]float64, TableSize)
	for i := range table {
		x := -1 + 2*float64(i)/float64(TableSize-1)
		table[i] = fn(x)
	}

	return &Curve{table: table}
}

// Apply maps one input sample through the curve.
func (c *Curve) Apply(x float64) float64 {
	if x <= -1 {
		return c.table[0]
	}

	if x >= 1 {
		return c.table[TableSize-1]
	}

	pos := (x + 1) * 0.5 * float64(TableSize-1)

	i := int(pos)
	if i >= TableSize-1 {
		// Rounding in (x+1) can land pos exactly on the last entry for
		// x within an ulp of 1; there is no i+1 to interpolate toward.
		return c.table[TableSize-1]
	}

	frac := pos - float64(i)

	return c.table[i] + (c.table[i+1]-c.table[i])*frac
}

// Process maps buf through the curve in place.
func (c *Curve) Process(buf []float64) {
	for i, x := range buf {
		buf[i] = c.Apply(x)
	}
}

// ProcessTo maps src through the curve into dst.
// Both slices must have the same length.
func (c *Curve) ProcessTo(dst, src []float64) {
	_ = dst[len(src)-1] // bounds check hint
	for i, x := range src {
		dst[i] = c.Apply(x)
	}
}

var (
	rectifierOnce sync.Once
	rectifier     *Curve

	softClipOnce sync.Once
	softClip     *Curve
)

// Rectifier returns the shared full-wave rectification curve, |x|.
// Used to turn a band-filtered modulator into a unipolar signal ahead
// of envelope smoothing.
func Rectifier() *Curve {
	rectifierOnce.Do(func() {
		rectifier = NewCurve(math.Abs)
	})

	return rectifier
}

// SoftClip returns the shared saturating limiter curve, (2/π)·atan(2x).
// Output magnitude approaches but never reaches 1, so makeup-gain
// overshoot rounds off instead of clipping hard.
func SoftClip() *Curve {
	softClipOnce.Do(func() {
		softClip = NewCurve(func(x float64) float64 {
			return (2 / math.Pi) * math.Atan(2*x)
		})
	})

	return softClip
}
