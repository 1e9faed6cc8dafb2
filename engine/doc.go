// Package engine orchestrates offline vocoder rendering.
//
// A job takes two encoded WAV streams — a modulator whose spectral
// envelope is measured, and a carrier that gets reshaped by it — plus a
// width parameter steering band sharpness. The engine validates, decodes,
// resamples everything to 48 kHz, renders the 16-band vocoder with its
// output dynamics chain, and encodes the result as mono 16-bit PCM.
//
// Failures carry one of three types: ValidationError for rejected
// parameters, DecodeError for unreadable inputs, EngineError for
// pipeline faults. All three unwrap to the underlying cause.
package engine
