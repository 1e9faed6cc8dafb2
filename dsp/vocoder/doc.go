// Package vocoder implements the 16-band channel vocoder core.
//
// The modulator signal is split into log-spaced bands between 80 Hz and
// 7 kHz. Each band rectifies and lowpass-smooths its filtered modulator
// into an amplitude envelope, which amplitude-modulates the matching
// band of the carrier. Band products sum onto a unity-gain bus; Chain
// then applies the fixed compression / makeup / soft-clip output stage.
//
// The width control (0–100) maps inversely to filter Q: narrow bands
// sound robotic and metallic, wide bands natural and breathy.
package vocoder
