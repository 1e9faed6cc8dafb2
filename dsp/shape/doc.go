// Package shape provides precomputed nonlinear transfer curves.
//
// Curves are fixed-resolution lookup tables sampled across [-1, 1] with
// linear interpolation between entries. The two built-in curves — the
// full-wave Rectifier and the arctangent SoftClip — are input-independent
// and cached process-wide, so every vocoder job shares the same tables.
package shape
