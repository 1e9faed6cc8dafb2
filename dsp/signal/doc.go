// Package signal generates deterministic test and carrier signals.
//
// The vocoder needs a spectrally rich carrier; Sawtooth and WhiteNoise
// provide the usual choices when no carrier recording is at hand, and
// Sine backs the package tests.
package signal
