package vocoder

import (
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-vocoder/dsp/dynamics"
	"github.com/cwbudde/algo-vocoder/dsp/shape"
)

// MakeupGain is the fixed linear gain applied after compression to
// restore loudness lost to band filtering and gain reduction (~+12 dB).
const MakeupGain = 4.0

// Chain is the fixed output stage applied to the summed band bus:
// soft-knee compression, makeup gain, then a soft-clip limiter. Its
// parameters are house constants, deliberately not configurable.
type Chain struct {
	comp   *dynamics.Compressor
	makeup float64
	clip   *shape.Curve
}

// NewChain builds the output chain for the given sample rate.
func NewChain(sampleRate float64) (*Chain, error) {
	comp, err := dynamics.NewCompressor(sampleRate)
	if err != nil {
		return nil, err
	}

	return &Chain{
		comp:   comp,
		makeup: MakeupGain,
		clip:   shape.SoftClip(),
	}, nil
}

// Process applies the chain to buf in place.
func (c *Chain) Process(buf []float64) {
	c.comp.ProcessInPlace(buf)
	vecmath.ScaleBlock(buf, buf, c.makeup)
	c.clip.Process(buf)
}

// Reset clears the compressor detector state.
func (c *Chain) Reset() {
	c.comp.Reset()
}
