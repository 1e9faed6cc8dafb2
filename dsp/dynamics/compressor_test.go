package dynamics

import (
	"math"
	"testing"
)

func TestNewCompressorValidation(t *testing.T) {
	tests := []struct {
		name string
		sr   float64
		opts []Option
	}{
		{"zero sample rate", 0, nil},
		{"negative sample rate", -48000, nil},
		{"NaN sample rate", math.NaN(), nil},
		{"NaN threshold", 48000, []Option{WithThreshold(math.NaN())}},
		{"ratio below one", 48000, []Option{WithRatio(0.5)}},
		{"ratio too high", 48000, []Option{WithRatio(200)}},
		{"negative knee", 48000, []Option{WithKnee(-1)}},
		{"knee too wide", 48000, []Option{WithKnee(30)}},
		{"attack too fast", 48000, []Option{WithAttack(0.01)}},
		{"release too slow", 48000, []Option{WithRelease(10000)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCompressor(tc.sr, tc.opts...)
			if err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestNewCompressorDefaults(t *testing.T) {
	c, err := NewCompressor(48000)
	if err != nil {
		t.Fatalf("NewCompressor() error = %v", err)
	}

	if c.Threshold() != -24 {
		t.Errorf("Threshold() = %g, want -24", c.Threshold())
	}

	if c.Ratio() != 12 {
		t.Errorf("Ratio() = %g, want 12", c.Ratio())
	}

	if c.Knee() != 10 {
		t.Errorf("Knee() = %g, want 10", c.Knee())
	}

	if c.Attack() != 3 {
		t.Errorf("Attack() = %g, want 3", c.Attack())
	}

	if c.Release() != 250 {
		t.Errorf("Release() = %g, want 250", c.Release())
	}
}

func TestStaticCurveBelowThreshold(t *testing.T) {
	c, err := NewCompressor(48000)
	if err != nil {
		t.Fatalf("NewCompressor() error = %v", err)
	}

	// -40 dB is far below a -24 dB threshold with a 10 dB knee:
	// output must equal input.
	in := math.Pow(10, -40.0/20)

	out := c.CalculateOutputLevel(in)
	if math.Abs(out-in) > 1e-12 {
		t.Errorf("CalculateOutputLevel(%g) = %g, want passthrough", in, out)
	}
}

func TestStaticCurveAboveThreshold(t *testing.T) {
	c, err := NewCompressor(48000)
	if err != nil {
		t.Fatalf("NewCompressor() error = %v", err)
	}

	// 0 dB input, -24 dB threshold, 12:1 ratio: overshoot of 24 dB is
	// reduced to 2 dB, so output sits near -22 dB.
	out := c.CalculateOutputLevel(1.0)
	outDB := 20 * math.Log10(out)

	if math.Abs(outDB-(-22)) > 0.5 {
		t.Errorf("output = %.2f dB, want ~-22 dB", outDB)
	}
}

func TestStaticCurveMonotonic(t *testing.T) {
	c, err := NewCompressor(48000)
	if err != nil {
		t.Fatalf("NewCompressor() error = %v", err)
	}

	prev := 0.0
	for dB := -60.0; dB <= 0; dB += 0.5 {
		out := c.CalculateOutputLevel(math.Pow(10, dB/20))
		if out < prev {
			t.Fatalf("static curve decreases at %g dB: %g < %g", dB, out, prev)
		}

		prev = out
	}
}

func TestHardKnee(t *testing.T) {
	c, err := NewCompressor(48000, WithKnee(0))
	if err != nil {
		t.Fatalf("NewCompressor() error = %v", err)
	}

	// Exactly at threshold the hard knee still passes through.
	at := math.Pow(10, -24.0/20)
	if out := c.CalculateOutputLevel(at); math.Abs(out-at) > 1e-12 {
		t.Errorf("CalculateOutputLevel(threshold) = %g, want %g", out, at)
	}
}

func TestAttackReducesGainOverTime(t *testing.T) {
	c, err := NewCompressor(48000)
	if err != nil {
		t.Fatalf("NewCompressor() error = %v", err)
	}

	// Drive with a constant 0 dB signal; the detector should converge and
	// the output settle near the static curve value.
	var out float64
	for i := 0; i < 48000; i++ {
		out = c.ProcessSample(1.0)
	}

	want := c.CalculateOutputLevel(1.0)
	if math.Abs(out-want) > 0.01 {
		t.Errorf("settled output = %g, want ~%g", out, want)
	}
}

func TestResetClearsDetector(t *testing.T) {
	c, err := NewCompressor(48000)
	if err != nil {
		t.Fatalf("NewCompressor() error = %v", err)
	}

	for i := 0; i < 1000; i++ {
		c.ProcessSample(1.0)
	}

	c.Reset()

	fresh, err := NewCompressor(48000)
	if err != nil {
		t.Fatalf("NewCompressor() error = %v", err)
	}

	for i := 0; i < 100; i++ {
		got := c.ProcessSample(0.5)
		want := fresh.ProcessSample(0.5)

		if got != want {
			t.Fatalf("sample %d after Reset: %g, want %g", i, got, want)
		}
	}
}

func BenchmarkCompressorProcessInPlace(b *testing.B) {
	c, err := NewCompressor(48000)
	if err != nil {
		b.Fatalf("NewCompressor() error = %v", err)
	}

	buf := make([]float64, 4096)
	for i := range buf {
		buf[i] = math.Sin(0.05 * float64(i))
	}

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		c.ProcessInPlace(buf)
	}
}
