package vocoder_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vocoder/dsp/vocoder"
)

func Example() {
	v, err := vocoder.New(48000, 50)
	if err != nil {
		panic(err)
	}

	chain, err := vocoder.NewChain(48000)
	if err != nil {
		panic(err)
	}

	// A 200 Hz "voice" shaping a 110 Hz sawtooth-ish carrier.
	const n = 48000

	mod := make([]float64, n)
	car := make([]float64, n)

	for i := range mod {
		mod[i] = math.Sin(2 * math.Pi * 200 * float64(i) / 48000)
		car[i] = math.Sin(2*math.Pi*110*float64(i)/48000) + 0.5*math.Sin(2*math.Pi*220*float64(i)/48000)
	}

	out := make([]float64, n)
	if err := v.ProcessBlock(mod, car, out); err != nil {
		panic(err)
	}

	chain.Process(out)

	peak := 0.0
	for _, s := range out {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	fmt.Printf("rendered %d samples, peak below 1: %v\n", len(out), peak < 1)
	// Output:
	// rendered 48000 samples, peak below 1: true
}

func ExampleQFromWidth() {
	for _, w := range []float64{0, 50, 100} {
		q, err := vocoder.QFromWidth(w)
		if err != nil {
			panic(err)
		}

		fmt.Printf("width %3.0f -> Q %.2f\n", w, q)
	}
	// Output:
	// width   0 -> Q 15.00
	// width  50 -> Q 7.75
	// width 100 -> Q 0.50
}
