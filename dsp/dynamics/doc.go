// Package dynamics provides the dynamic range processing stage of the
// vocoder output chain.
//
// Compressor implements a mono soft-knee compressor with log2-domain gain
// computation. Defaults are the fixed "house" settings applied after band
// summation; see the engine package for the full post-processing chain.
package dynamics
