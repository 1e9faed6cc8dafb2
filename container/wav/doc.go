// Package wav reads and writes RIFF/WAVE byte streams.
//
// Decode accepts the encodings found in practice — 16/24/32-bit PCM and
// 32/64-bit IEEE float, plus their WAVE_FORMAT_EXTENSIBLE wrappers — and
// returns non-interleaved float64 channels. Encode writes mono 16-bit
// PCM, the engine's output format.
package wav
