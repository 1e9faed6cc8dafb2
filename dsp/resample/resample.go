package resample

import (
	"errors"
	"math"
)

var (
	// ErrInvalidRate indicates a non-positive input or output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

const (
	defaultTapsPerPhase = 32
	defaultCutoffScale  = 0.92
	defaultKaiserBeta   = 7.5
)

// Option configures the resampler design.
type Option func(*config)

type config struct {
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

// WithTapsPerPhase overrides taps per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithCutoffScale overrides normalized cutoff scaling in (0, 1].
// 1.0 equals the theoretical anti-aliasing cutoff.
func WithCutoffScale(v float64) Option {
	return func(cfg *config) {
		if v > 0 && v <= 1 {
			cfg.cutoffScale = v
		}
	}
}

// WithKaiserBeta overrides the Kaiser window beta parameter.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) {
		if beta >= 0 {
			cfg.kaiserBeta = beta
		}
	}
}

// Resampler performs rational sample-rate conversion with a polyphase
// Kaiser-windowed-sinc FIR. It is an offline, whole-buffer converter:
// each Process call treats its input as a complete signal with silence
// before and after.
type Resampler struct {
	up   int
	down int

	phases [][]float64
}

// New creates a resampler converting inRate to outRate (both in Hz).
// Equal rates yield an identity converter.
func New(inRate, outRate int, opts ...Option) (*Resampler, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, ErrInvalidRate
	}

	cfg := config{
		tapsPerPhase: defaultTapsPerPhase,
		cutoffScale:  defaultCutoffScale,
		kaiserBeta:   defaultKaiserBeta,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	g := gcd(outRate, inRate)
	up := outRate / g
	down := inRate / g

	r := &Resampler{up: up, down: down}

	if up != down {
		r.phases = designPolyphaseFIR(up, down, cfg)
	}

	return r, nil
}

// Ratio returns the reduced up/down conversion factors.
func (r *Resampler) Ratio() (up, down int) {
	return r.up, r.down
}

// OutputLen returns the number of output samples produced for inputLen
// input samples: ceil(inputLen * up / down).
func (r *Resampler) OutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}

	return (inputLen*r.up + r.down - 1) / r.down
}

// Process converts input and returns a freshly allocated output buffer.
// The identity ratio returns a copy.
func (r *Resampler) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}

	if r.up == r.down {
		out := make([]float64, len(input))
		copy(out, input)

		return out
	}

	nOut := r.OutputLen(len(input))
	out := make([]float64, nOut)

	// Output sample m draws from input index floor(m*down/up) using the
	// polyphase branch (m*down) mod up. Taps reaching outside the input
	// see silence.
	for m := range out {
		num := m * r.down
		inputIndex := num / r.up
		taps := r.phases[num%r.up]

		var y float64

		for k, c := range taps {
			idx := inputIndex - k
			if idx < 0 || idx >= len(input) {
				continue
			}

			y += c * input[idx]
		}

		out[m] = y
	}

	return out
}

// Resample converts input from inRate to outRate as a one-shot helper.
func Resample(input []float64, inRate, outRate int, opts ...Option) ([]float64, error) {
	r, err := New(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	return r.Process(input), nil
}

// designPolyphaseFIR builds the up polyphase branches of a lowpass
// prototype with cutoff at the tighter of the two Nyquist limits.
func designPolyphaseFIR(up, down int, cfg config) [][]float64 {
	den := up
	if down > den {
		den = down
	}

	// Scale the prototype with the larger factor so pure downsampling
	// keeps a long enough anti-aliasing filter.
	nTaps := cfg.tapsPerPhase * den

	fc := (0.5 / float64(den)) * cfg.cutoffScale

	taps := make([]float64, nTaps)
	center := 0.5 * float64(nTaps-1)

	var sum float64

	for n := range nTaps {
		t := float64(n) - center
		taps[n] = 2 * fc * sinc(2*fc*t) * kaiserWindow(n, nTaps, cfg.kaiserBeta)
		sum += taps[n]
	}

	// Normalize for unity DC gain after interpolation.
	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}

	phases := make([][]float64, up)

	for p := range up {
		phase := make([]float64, 0, (nTaps-p+up-1)/up)
		for i := p; i < nTaps; i += up {
			phase = append(phase, taps[i])
		}

		phases[p] = phase
	}

	return phases
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	if a == 0 {
		return 1
	}

	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	pix := math.Pi * x

	return math.Sin(pix) / pix
}

func kaiserWindow(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1
	a := math.Sqrt(math.Max(0, 1-t*t))

	return i0(beta*a) / i0(beta)
}

// i0 is the zeroth-order modified Bessel function, by power series.
func i0(x float64) float64 {
	sum := 1.0
	term := 1.0

	x2 := (x * x) / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)

		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
