package bands_test

import (
	"fmt"

	"github.com/cwbudde/algo-vocoder/dsp/bands"
)

func ExampleLogSpaced() {
	freqs, err := bands.LogSpaced(80, 7000, 16)
	if err != nil {
		panic(err)
	}

	fmt.Printf("bands: %d\n", len(freqs))
	fmt.Printf("first: %.0f Hz\n", freqs[0])
	fmt.Printf("last:  %.0f Hz\n", freqs[15])
	// Output:
	// bands: 16
	// first: 80 Hz
	// last:  7000 Hz
}
