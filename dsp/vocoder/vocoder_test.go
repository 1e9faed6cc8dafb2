package vocoder

import (
	"math"
	"math/rand"
	"testing"

	algofft "github.com/MeKo-Christian/algo-fft"
)

func TestQFromWidthEndpoints(t *testing.T) {
	q0, err := QFromWidth(0)
	if err != nil {
		t.Fatalf("QFromWidth(0) error = %v", err)
	}

	if q0 != 15 {
		t.Errorf("QFromWidth(0) = %g, want 15", q0)
	}

	q100, err := QFromWidth(100)
	if err != nil {
		t.Fatalf("QFromWidth(100) error = %v", err)
	}

	if q100 != 0.5 {
		t.Errorf("QFromWidth(100) = %g, want 0.5", q100)
	}
}

func TestQFromWidthMonotonic(t *testing.T) {
	prev := math.Inf(1)

	for w := 0.0; w <= 100; w++ {
		q, err := QFromWidth(w)
		if err != nil {
			t.Fatalf("QFromWidth(%g) error = %v", w, err)
		}

		if q > prev {
			t.Fatalf("Q increases at width %g: %g > %g", w, q, prev)
		}

		if q < 0.5 || q > 15 {
			t.Fatalf("QFromWidth(%g) = %g outside [0.5, 15]", w, q)
		}

		prev = q
	}
}

func TestQFromWidthValidation(t *testing.T) {
	for _, w := range []float64{-5, -0.001, 100.001, 150, math.NaN()} {
		if _, err := QFromWidth(w); err == nil {
			t.Errorf("QFromWidth(%g) expected error", w)
		}
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		sr    float64
		width float64
	}{
		{"zero sample rate", 0, 50},
		{"negative sample rate", -48000, 50},
		{"NaN sample rate", math.NaN(), 50},
		{"negative width", 48000, -5},
		{"width too large", 48000, 150},
		{"nyquist below top band", 10000, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.sr, tc.width)
			if err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestSilentModulatorProducesSilence(t *testing.T) {
	v, err := New(48000, 50)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rng := rand.New(rand.NewSource(1))

	maxOut := 0.0

	for i := 0; i < 48000; i++ {
		carrier := rng.Float64()*2 - 1
		out := v.ProcessSample(0, carrier)

		if a := math.Abs(out); a > maxOut {
			maxOut = a
		}
	}

	// The rectifier table cannot represent the |x| kink exactly at 0, so
	// a silent modulator leaves a floor of about 1/65535 per band rather
	// than exact zero.
	if maxOut > 1e-3 {
		t.Errorf("max output for silent modulator = %g, want ~0", maxOut)
	}
}

func TestProcessBlockMatchesProcessSample(t *testing.T) {
	const n = 4097

	mod := make([]float64, n)
	car := make([]float64, n)

	rng := rand.New(rand.NewSource(7))
	for i := range mod {
		mod[i] = math.Sin(2*math.Pi*200*float64(i)/48000) * 0.8
		car[i] = rng.Float64()*2 - 1
	}

	a, err := New(48000, 50)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := make([]float64, n)
	for i := range mod {
		want[i] = a.ProcessSample(mod[i], car[i])
	}

	b, err := New(48000, 50)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := make([]float64, n)
	if err := b.ProcessBlock(mod, car, got); err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d: block %g, per-sample %g", i, got[i], want[i])
		}
	}
}

func TestProcessBlockLengthMismatch(t *testing.T) {
	v, err := New(48000, 50)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := v.ProcessBlock(make([]float64, 10), make([]float64, 20), make([]float64, 10)); err == nil {
		t.Error("expected error for mismatched buffers")
	}
}

func TestDeterministicOutput(t *testing.T) {
	const n = 9600

	mod := make([]float64, n)
	car := make([]float64, n)

	rng := rand.New(rand.NewSource(3))
	for i := range mod {
		mod[i] = math.Sin(2 * math.Pi * 150 * float64(i) / 48000)
		car[i] = rng.Float64()*2 - 1
	}

	render := func() []float64 {
		v, err := New(48000, 35)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		out := make([]float64, n)
		if err := v.ProcessBlock(mod, car, out); err != nil {
			t.Fatalf("ProcessBlock() error = %v", err)
		}

		return out
	}

	a := render()
	b := render()

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between identical renders: %v vs %v", i, a[i], b[i])
		}
	}
}

// TestOutputFollowsModulatorBand verifies the defining vocoder property:
// carrier energy is gated by where the modulator has energy. A 1 kHz
// modulator tone against a white-noise carrier must concentrate output
// energy near 1 kHz and leave distant bands quiet.
func TestOutputFollowsModulatorBand(t *testing.T) {
	const (
		n       = 1 << 16
		sr      = 48000.0
		fftSize = 8192
	)

	mod := make([]float64, n)
	car := make([]float64, n)

	rng := rand.New(rand.NewSource(11))
	for i := range mod {
		mod[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / sr)
		car[i] = rng.Float64()*2 - 1
	}

	// Narrow bands make the selectivity unambiguous.
	v, err := New(sr, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out := make([]float64, n)
	if err := v.ProcessBlock(mod, car, out); err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}

	near := bandPowerDB(t, out, sr, fftSize, 800, 1250)
	far := bandPowerDB(t, out, sr, fftSize, 4000, 6000)

	if near-far < 20 {
		t.Errorf("energy near modulator tone %.1f dB vs far %.1f dB; want >= 20 dB separation", near, far)
	}
}

func TestWidthControlsSelectivity(t *testing.T) {
	const (
		n  = 1 << 15
		sr = 48000.0
	)

	mod := make([]float64, n)
	car := make([]float64, n)

	rng := rand.New(rand.NewSource(17))
	for i := range mod {
		mod[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / sr)
		car[i] = rng.Float64()*2 - 1
	}

	offBand := func(width float64) float64 {
		v, err := New(sr, width)
		if err != nil {
			t.Fatalf("New(%g) error = %v", width, err)
		}

		out := make([]float64, n)
		if err := v.ProcessBlock(mod, car, out); err != nil {
			t.Fatalf("ProcessBlock() error = %v", err)
		}

		on := bandPowerDB(t, out, sr, 8192, 800, 1250)
		off := bandPowerDB(t, out, sr, 8192, 4000, 6000)

		return on - off
	}

	narrow := offBand(0)
	wide := offBand(100)

	if narrow <= wide {
		t.Errorf("narrow bands separate %.1f dB, wide %.1f dB; narrow should separate more", narrow, wide)
	}
}

func TestChainBoundsOutput(t *testing.T) {
	chain, err := NewChain(48000)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	// Hot input: full-scale square-ish signal that makeup gain would
	// otherwise push far past 1.
	buf := make([]float64, 48000)
	for i := range buf {
		if i%2 == 0 {
			buf[i] = 1.5
		} else {
			buf[i] = -1.5
		}
	}

	chain.Process(buf)

	for i, s := range buf {
		if math.Abs(s) >= 1 {
			t.Fatalf("sample %d = %g, soft clip must keep |x| < 1", i, s)
		}
	}
}

func TestChainPreservesSilence(t *testing.T) {
	chain, err := NewChain(48000)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	buf := make([]float64, 4800)
	chain.Process(buf)

	for i, s := range buf {
		if s != 0 {
			t.Fatalf("sample %d = %g, want 0", i, s)
		}
	}
}

// bandPowerDB sums FFT power between loHz and hiHz over a centered
// Hann-windowed frame and returns it in dB.
func bandPowerDB(t *testing.T, signal []float64, sampleRate float64, fftSize int, loHz, hiHz float64) float64 {
	t.Helper()

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		t.Fatalf("NewPlan64: %v", err)
	}

	mid := max(len(signal)/2-fftSize/2, 0)

	in := make([]complex128, fftSize)
	out := make([]complex128, fftSize)

	for i := range fftSize {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize))
		in[i] = complex(signal[mid+i]*w, 0)
	}

	if err := plan.Forward(out, in); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	binHz := sampleRate / float64(fftSize)
	sum := 0.0

	for k := 1; k <= fftSize/2; k++ {
		f := float64(k) * binHz
		if f < loHz || f > hiHz {
			continue
		}

		re, im := real(out[k]), imag(out[k])
		sum += re*re + im*im
	}

	return 10 * math.Log10(sum+1e-20)
}

func BenchmarkProcessBlock(b *testing.B) {
	v, err := New(48000, 50)
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}

	const n = 4096

	mod := make([]float64, n)
	car := make([]float64, n)
	out := make([]float64, n)

	for i := range mod {
		mod[i] = math.Sin(2 * math.Pi * 200 * float64(i) / 48000)
		car[i] = math.Sin(2 * math.Pi * 110 * float64(i) / 48000)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		if err := v.ProcessBlock(mod, car, out); err != nil {
			b.Fatal(err)
		}
	}
}
