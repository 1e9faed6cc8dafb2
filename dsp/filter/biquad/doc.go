// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. The RBJ cookbook designs
// needed by the vocoder bank — constant-peak-gain [Bandpass] and [Lowpass] —
// live alongside the runtime since this module has no separate design layer.
package biquad
