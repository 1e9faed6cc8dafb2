package bands

import (
	"math"
	"testing"
)

func TestLogSpacedValidation(t *testing.T) {
	tests := []struct {
		name  string
		min   float64
		max   float64
		count int
	}{
		{"zero min", 0, 7000, 16},
		{"negative min", -80, 7000, 16},
		{"NaN min", math.NaN(), 7000, 16},
		{"max equals min", 80, 80, 16},
		{"max below min", 7000, 80, 16},
		{"Inf max", 80, math.Inf(1), 16},
		{"count one", 80, 7000, 1},
		{"count zero", 80, 7000, 0},
		{"negative count", 80, 7000, -3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LogSpaced(tc.min, tc.max, tc.count)
			if err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestLogSpacedVocoderPlan(t *testing.T) {
	freqs, err := LogSpaced(80, 7000, 16)
	if err != nil {
		t.Fatalf("LogSpaced() error = %v", err)
	}

	if len(freqs) != 16 {
		t.Fatalf("len = %d, want 16", len(freqs))
	}

	if freqs[0] != 80 {
		t.Errorf("f[0] = %g, want 80", freqs[0])
	}

	if freqs[15] != 7000 {
		t.Errorf("f[15] = %g, want 7000", freqs[15])
	}

	for i := 1; i < len(freqs); i++ {
		if freqs[i] <= freqs[i-1] {
			t.Errorf("f[%d] = %g not greater than f[%d] = %g", i, freqs[i], i-1, freqs[i-1])
		}
	}

	// Consecutive log ratios must be equal.
	wantRatio := math.Pow(7000.0/80.0, 1.0/15.0)
	for i := 1; i < len(freqs); i++ {
		ratio := freqs[i] / freqs[i-1]
		if math.Abs(ratio-wantRatio) > 1e-9 {
			t.Errorf("ratio f[%d]/f[%d] = %.12f, want %.12f", i, i-1, ratio, wantRatio)
		}
	}
}

func TestLogSpacedTwoPoints(t *testing.T) {
	freqs, err := LogSpaced(100, 200, 2)
	if err != nil {
		t.Fatalf("LogSpaced() error = %v", err)
	}

	if freqs[0] != 100 || freqs[1] != 200 {
		t.Errorf("got %v, want [100 200]", freqs)
	}
}

func TestLogSpacedDeterministic(t *testing.T) {
	a, err := LogSpaced(80, 7000, 16)
	if err != nil {
		t.Fatalf("LogSpaced() error = %v", err)
	}

	b, err := LogSpaced(80, 7000, 16)
	if err != nil {
		t.Fatalf("LogSpaced() error = %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("f[%d] differs between calls: %v vs %v", i, a[i], b[i])
		}
	}
}
