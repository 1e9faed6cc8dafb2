package engine

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-vocoder/container/wav"
	"github.com/cwbudde/algo-vocoder/dsp/resample"
	"github.com/cwbudde/algo-vocoder/dsp/vocoder"
)

// OutputSampleRate is the fixed rendering rate in Hz. All inputs are
// converted to it before the vocoder runs.
const OutputSampleRate = 48000

// Engine renders vocoder jobs. It is stateless between calls; a single
// Engine may serve any number of sequential Process calls.
type Engine struct {
	log *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger. The default discards logs.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{log: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// Process renders one vocoder job: the spectral envelope of the
// modulator WAV is imposed on the carrier WAV, the result runs through
// the output dynamics chain, and comes back as a mono 16-bit PCM WAV at
// 48 kHz. Width selects band sharpness in [0, 100] and is validated
// before any decoding happens. Both inputs use channel 0; the render
// length is the shorter of the two inputs.
func (e *Engine) Process(modulator, carrier []byte, width float64) ([]byte, error) {
	if _, err := vocoder.QFromWidth(width); err != nil {
		return nil, &ValidationError{Field: "width", Err: err}
	}

	mod, modRate, err := decodeChannel(modulator, "modulator")
	if err != nil {
		return nil, err
	}

	car, carRate, err := decodeChannel(carrier, "carrier")
	if err != nil {
		return nil, err
	}

	e.log.Debug("inputs decoded",
		zap.Int("modulator_rate", modRate),
		zap.Int("modulator_frames", len(mod)),
		zap.Int("carrier_rate", carRate),
		zap.Int("carrier_frames", len(car)),
		zap.Float64("width", width))

	n := renderLength(len(mod), modRate, len(car), carRate)
	if n == 0 {
		return nil, &ValidationError{Field: "input length", Err: errors.New("inputs shorter than one output sample")}
	}

	mod48, err := toOutputRate(mod, modRate)
	if err != nil {
		return nil, &EngineError{Stage: "resample modulator", Err: err}
	}

	car48, err := toOutputRate(car, carRate)
	if err != nil {
		return nil, &EngineError{Stage: "resample carrier", Err: err}
	}

	mod48 = mod48[:n]
	car48 = car48[:n]

	v, err := vocoder.New(OutputSampleRate, width)
	if err != nil {
		return nil, &EngineError{Stage: "build vocoder", Err: err}
	}

	out := make([]float64, n)
	if err := v.ProcessBlock(mod48, car48, out); err != nil {
		return nil, &EngineError{Stage: "render", Err: err}
	}

	chain, err := vocoder.NewChain(OutputSampleRate)
	if err != nil {
		return nil, &EngineError{Stage: "build chain", Err: err}
	}

	chain.Process(out)

	data, err := wav.Encode(OutputSampleRate, out)
	if err != nil {
		return nil, &EngineError{Stage: "encode", Err: err}
	}

	e.log.Info("job rendered",
		zap.Int("frames", n),
		zap.Float64("seconds", float64(n)/OutputSampleRate),
		zap.Float64("width", width))

	return data, nil
}

// decodeChannel decodes a WAV stream and returns channel 0.
func decodeChannel(data []byte, name string) ([]float64, int, error) {
	a, err := wav.Decode(data)
	if err != nil {
		return nil, 0, &DecodeError{Input: name, Err: err}
	}

	if a.Len() == 0 {
		return nil, 0, &DecodeError{Input: name, Err: errors.New("no audio frames")}
	}

	return a.Channels[0], a.SampleRate, nil
}

// renderLength is the output frame count: the shorter input's duration
// expressed at the output rate, rounded down.
func renderLength(modFrames, modRate, carFrames, carRate int) int {
	m := modFrames * OutputSampleRate / modRate
	c := carFrames * OutputSampleRate / carRate

	if c < m {
		return c
	}

	return m
}

func toOutputRate(samples []float64, rate int) ([]float64, error) {
	if rate == OutputSampleRate {
		return samples, nil
	}

	return resample.Resample(samples, rate, OutputSampleRate)
}
