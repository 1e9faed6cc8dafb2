// Package resample converts audio between sample rates.
//
// The engine runs at a fixed 48 kHz; decoded inputs arriving at other
// rates pass through a rational polyphase Kaiser-windowed-sinc FIR on
// their way into the rendering context. Conversion is offline and
// whole-buffer — there is no streaming state.
package resample
