// Package bands computes frequency band placements for filter banks.
//
// The planner is pure and deterministic: given the same frequency range
// and band count it always produces the same center frequencies. The
// vocoder engine uses LogSpaced(80, 7000, 16) for its analysis and
// synthesis banks.
package bands
