package vocoder

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-vocoder/dsp/bands"
	"github.com/cwbudde/algo-vocoder/dsp/filter/biquad"
	"github.com/cwbudde/algo-vocoder/dsp/shape"
)

const (
	// NumBands is the number of analysis/synthesis bands per job.
	NumBands = 16

	// MinBandHz and MaxBandHz bound the log-spaced band plan.
	MinBandHz = 80
	MaxBandHz = 7000

	// EnvelopeCutoffHz is the fixed lowpass cutoff applied to the
	// rectified modulator in every band. Fast enough to track
	// syllabic-rate modulation, slow enough to reject the carrier's
	// own fundamental.
	EnvelopeCutoffHz = 40

	minQ = 0.5
	maxQ = 15.0
)

// QFromWidth maps the user-facing width control in [0, 100] to a filter
// Q factor in [0.5, 15]. The mapping is inverted: width 0 gives the
// narrowest bands (Q 15, robotic), width 100 the widest (Q 0.5, natural).
func QFromWidth(width float64) (float64, error) {
	if width < 0 || width > 100 || math.IsNaN(width) {
		return 0, fmt.Errorf("vocoder: width must be in [0, 100]: %g", width)
	}

	return maxQ + (width/100)*(minQ-maxQ), nil
}

// band holds the per-band signal state: a modulator-side bandpass, the
// envelope smoothing lowpass, and a carrier-side bandpass. Bands share
// nothing; each is owned by exactly one Vocoder.
type band struct {
	analysis  biquad.Section
	envelope  biquad.Section
	synthesis biquad.Section
}

// Vocoder imposes the time-varying spectral envelope of a modulator
// signal onto a carrier signal across NumBands log-spaced bands.
//
// A Vocoder is single-use per job in spirit: construction fixes the
// sample rate and width, and filter state accumulates across Process
// calls. Call Reset to reuse one for an unrelated signal pair.
type Vocoder struct {
	sampleRate float64
	width      float64
	q          float64

	bands [NumBands]band
	rect  *shape.Curve

	// Scratch blocks for envelope and carrier paths.
	envScratch []float64
	carScratch []float64
}

// New builds a vocoder for the given sample rate and width control.
// One Q value, derived from width, applies to every band's modulator
// and carrier filters.
func New(sampleRate, width float64) (*Vocoder, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("vocoder: sample rate must be > 0: %f", sampleRate)
	}

	q, err := QFromWidth(width)
	if err != nil {
		return nil, err
	}

	freqs, err := bands.LogSpaced(MinBandHz, MaxBandHz, NumBands)
	if err != nil {
		return nil, err
	}

	v := &Vocoder{
		sampleRate: sampleRate,
		width:      width,
		q:          q,
		rect:       shape.Rectifier(),
	}

	envCoeffs, err := biquad.Lowpass(EnvelopeCutoffHz, biquad.ButterworthQ, sampleRate)
	if err != nil {
		return nil, err
	}

	for i, freq := range freqs {
		bp, err := biquad.Bandpass(freq, q, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("vocoder: band %d at %g Hz: %w", i, freq, err)
		}

		v.bands[i] = band{
			analysis:  *biquad.NewSection(bp),
			envelope:  *biquad.NewSection(envCoeffs),
			synthesis: *biquad.NewSection(bp),
		}
	}

	return v, nil
}

// SampleRate returns the processing sample rate in Hz.
func (v *Vocoder) SampleRate() float64 { return v.sampleRate }

// Width returns the width control value this vocoder was built with.
func (v *Vocoder) Width() float64 { return v.width }

// Q returns the band filter Q derived from the width control.
func (v *Vocoder) Q() float64 { return v.q }

// ProcessSample processes one modulator/carrier sample pair and returns
// the summed band output. The output chain (compression, makeup gain,
// soft clipping) is applied separately; see Chain.
func (v *Vocoder) ProcessSample(modulator, carrier float64) float64 {
	sum := 0.0

	for i := range v.bands {
		b := &v.bands[i]

		env := b.envelope.ProcessSample(v.rect.Apply(b.analysis.ProcessSample(modulator)))
		sum += env * b.synthesis.ProcessSample(carrier)
	}

	return sum
}

// ProcessBlock runs the band graph over whole buffers, accumulating the
// per-band products into output. All three slices must have the same
// length. Output is overwritten, not mixed into.
//
// Band contributions are added in band order for every sample, so the
// result is bit-identical to a ProcessSample loop.
func (v *Vocoder) ProcessBlock(modulator, carrier, output []float64) error {
	if len(modulator) != len(carrier) || len(modulator) != len(output) {
		return fmt.Errorf("vocoder: buffer length mismatch: modulator=%d carrier=%d output=%d",
			len(modulator), len(carrier), len(output))
	}

	n := len(modulator)
	v.growScratch(n)

	for i := range output {
		output[i] = 0
	}

	for i := range v.bands {
		b := &v.bands[i]

		// Modulator path: bandpass, rectify, smooth into an envelope.
		env := v.envScratch[:n]
		b.analysis.ProcessBlockTo(env, modulator)
		v.rect.Process(env)
		b.envelope.ProcessBlock(env)

		// Carrier path: bandpass, then envelope-driven gain.
		car := v.carScratch[:n]
		b.synthesis.ProcessBlockTo(car, carrier)
		vecmath.MulBlockInPlace(car, env)

		// Contribute to the summing bus at unity gain.
		vecmath.AddBlockInPlace(output, car)
	}

	return nil
}

// Reset clears all band filter state.
func (v *Vocoder) Reset() {
	for i := range v.bands {
		v.bands[i].analysis.Reset()
		v.bands[i].envelope.Reset()
		v.bands[i].synthesis.Reset()
	}
}

func (v *Vocoder) growScratch(n int) {
	if cap(v.envScratch) < n {
		v.envScratch = make([]float64, n)
		v.carScratch = make([]float64, n)
	}
}
