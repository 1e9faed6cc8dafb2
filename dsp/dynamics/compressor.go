package dynamics

import (
	"fmt"
	"math"
)

const (
	// Default parameters match the vocoder output chain: heavy-ratio peak
	// control for summed band buses, slow enough release to avoid pumping.
	defaultThresholdDB = -24.0
	defaultRatio       = 12.0
	defaultKneeDB      = 10.0
	defaultAttackMs    = 3.0
	defaultReleaseMs   = 250.0

	minRatio     = 1.0
	maxRatio     = 100.0
	minAttackMs  = 0.1
	maxAttackMs  = 1000.0
	minReleaseMs = 1.0
	maxReleaseMs = 5000.0
	minKneeDB    = 0.0
	maxKneeDB    = 24.0

	// log2Of10Div20 converts decibels to the log2 domain: log2(10) / 20.
	log2Of10Div20 = 0.166096404744
)

// Option configures a Compressor at construction time.
type Option func(*Compressor) error

// WithThreshold sets the compression threshold in dB.
func WithThreshold(dB float64) Option {
	return func(c *Compressor) error {
		if math.IsNaN(dB) || math.IsInf(dB, 0) {
			return fmt.Errorf("dynamics: threshold must be finite: %f", dB)
		}

		c.thresholdDB = dB

		return nil
	}
}

// WithRatio sets the compression ratio in [1, 100].
func WithRatio(ratio float64) Option {
	return func(c *Compressor) error {
		if ratio < minRatio || ratio > maxRatio || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			return fmt.Errorf("dynamics: ratio must be in [%g, %g]: %f", minRatio, maxRatio, ratio)
		}

		c.ratio = ratio

		return nil
	}
}

// WithKnee sets the soft-knee width in dB. Zero gives a hard knee.
func WithKnee(kneeDB float64) Option {
	return func(c *Compressor) error {
		if kneeDB < minKneeDB || kneeDB > maxKneeDB || math.IsNaN(kneeDB) || math.IsInf(kneeDB, 0) {
			return fmt.Errorf("dynamics: knee must be in [%g, %g]: %f", minKneeDB, maxKneeDB, kneeDB)
		}

		c.kneeDB = kneeDB

		return nil
	}
}

// WithAttack sets the detector attack time in milliseconds.
func WithAttack(ms float64) Option {
	return func(c *Compressor) error {
		if ms < minAttackMs || ms > maxAttackMs || math.IsNaN(ms) || math.IsInf(ms, 0) {
			return fmt.Errorf("dynamics: attack must be in [%g, %g] ms: %f", minAttackMs, maxAttackMs, ms)
		}

		c.attackMs = ms

		return nil
	}
}

// WithRelease sets the detector release time in milliseconds.
func WithRelease(ms float64) Option {
	return func(c *Compressor) error {
		if ms < minReleaseMs || ms > maxReleaseMs || math.IsNaN(ms) || math.IsInf(ms, 0) {
			return fmt.Errorf("dynamics: release must be in [%g, %g] ms: %f", minReleaseMs, maxReleaseMs, ms)
		}

		c.releaseMs = ms

		return nil
	}
}

// Compressor is a mono soft-knee compressor with log2-domain gain
// computation. The soft knee smooths the transition around the threshold
// with a quadratic segment, so gain reduction ramps in gradually instead
// of switching on at a hard corner.
//
// Not safe for concurrent use; one instance per rendering job.
type Compressor struct {
	thresholdDB float64
	ratio       float64
	kneeDB      float64
	attackMs    float64
	releaseMs   float64

	sampleRate float64

	// Detector state.
	peakLevel float64

	// Cached coefficients.
	attackCoeff      float64
	releaseCoeff     float64
	thresholdLog2    float64
	kneeWidthLog2    float64
	invKneeWidthLog2 float64
}

// NewCompressor creates a compressor with the vocoder chain defaults:
// threshold −24 dB, ratio 12:1, knee 10 dB, attack 3 ms, release 250 ms.
func NewCompressor(sampleRate float64, opts ...Option) (*Compressor, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("dynamics: sample rate must be > 0: %f", sampleRate)
	}

	c := &Compressor{
		thresholdDB: defaultThresholdDB,
		ratio:       defaultRatio,
		kneeDB:      defaultKneeDB,
		attackMs:    defaultAttackMs,
		releaseMs:   defaultReleaseMs,
		sampleRate:  sampleRate,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(c)
		if err != nil {
			return nil, err
		}
	}

	c.updateCoefficients()

	return c, nil
}

// Threshold returns the threshold in dB.
func (c *Compressor) Threshold() float64 { return c.thresholdDB }

// Ratio returns the compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// Knee returns the knee width in dB.
func (c *Compressor) Knee() float64 { return c.kneeDB }

// Attack returns the attack time in milliseconds.
func (c *Compressor) Attack() float64 { return c.attackMs }

// Release returns the release time in milliseconds.
func (c *Compressor) Release() float64 { return c.releaseMs }

// ProcessSample compresses one sample.
func (c *Compressor) ProcessSample(input float64) float64 {
	inputLevel := math.Abs(input)

	if inputLevel > c.peakLevel {
		c.peakLevel += (inputLevel - c.peakLevel) * c.attackCoeff
	} else {
		c.peakLevel = inputLevel + (c.peakLevel-inputLevel)*c.releaseCoeff
	}

	return input * c.calculateGain(c.peakLevel)
}

// ProcessInPlace compresses buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// CalculateOutputLevel computes the steady-state output level for a given
// input magnitude, for visualizing the static compression curve.
func (c *Compressor) CalculateOutputLevel(inputMagnitude float64) float64 {
	inputMagnitude = math.Abs(inputMagnitude)

	return inputMagnitude * c.calculateGain(inputMagnitude)
}

// Reset clears the detector state.
func (c *Compressor) Reset() {
	c.peakLevel = 0
}

func (c *Compressor) updateCoefficients() {
	c.thresholdLog2 = c.thresholdDB * log2Of10Div20
	c.kneeWidthLog2 = c.kneeDB * log2Of10Div20

	if c.kneeDB > 0 {
		c.invKneeWidthLog2 = 1.0 / c.kneeWidthLog2
	} else {
		c.invKneeWidthLog2 = 0
	}

	c.attackCoeff = 1.0 - math.Exp(-math.Ln2/(c.attackMs*0.001*c.sampleRate))
	c.releaseCoeff = math.Exp(-math.Ln2 / (c.releaseMs * 0.001 * c.sampleRate))
}

// calculateGain computes the gain multiplier using the log2-domain
// soft-knee formula: a quadratic segment of width kneeDB spans the
// threshold, blending unity gain into the full-ratio slope.
func (c *Compressor) calculateGain(peakLevel float64) float64 {
	if peakLevel <= 0 {
		return 1.0
	}

	peakLog2 := mathLog2(peakLevel)
	overshoot := peakLog2 - c.thresholdLog2

	if c.kneeDB <= 0 {
		if overshoot <= 0 {
			return 1.0
		}

		return mathPower2(-overshoot * (1.0 - 1.0/c.ratio))
	}

	halfWidth := c.kneeWidthLog2 * 0.5

	var effectiveOvershoot float64

	switch {
	case overshoot < -halfWidth:
		return 1.0
	case overshoot > halfWidth:
		effectiveOvershoot = overshoot
	default:
		// (overshoot + w/2)^2 / (2w)
		scratch := overshoot + halfWidth
		effectiveOvershoot = scratch * scratch * 0.5 * c.invKneeWidthLog2
	}

	return mathPower2(-effectiveOvershoot * (1.0 - 1.0/c.ratio))
}
