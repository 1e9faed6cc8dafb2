package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidHeader indicates the data is not a RIFF/WAVE stream or a
	// required chunk is malformed.
	ErrInvalidHeader = errors.New("wav: invalid header")

	// ErrUnsupportedFormat indicates a sample encoding this package does
	// not handle.
	ErrUnsupportedFormat = errors.New("wav: unsupported sample format")
)

const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE
)

// Audio holds decoded audio as non-interleaved float64 channels in the
// nominal range [-1, 1].
type Audio struct {
	SampleRate int
	Channels   [][]float64
}

// NumChannels returns the channel count.
func (a *Audio) NumChannels() int {
	return len(a.Channels)
}

// Len returns the number of sample frames per channel.
func (a *Audio) Len() int {
	if len(a.Channels) == 0 {
		return 0
	}

	return len(a.Channels[0])
}

// Decode parses a RIFF/WAVE byte stream. Supported sample encodings are
// PCM at 16, 24 and 32 bits and IEEE float at 32 and 64 bits, including
// WAVE_FORMAT_EXTENSIBLE wrappers around either. Unknown chunks are
// skipped.
func Decode(data []byte) (*Audio, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, ErrInvalidHeader
	}

	var (
		haveFmt       bool
		audioFormat   uint16
		channels      int
		sampleRate    int
		bitsPerSample int
		pcmData       []byte
	)

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		pos += 8

		if size < 0 || pos+size > len(data) {
			return nil, fmt.Errorf("%w: chunk %q overruns stream", ErrInvalidHeader, id)
		}

		body := data[pos : pos+size]

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: fmt chunk too short", ErrInvalidHeader)
			}

			audioFormat = binary.LittleEndian.Uint16(body[0:2])
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))

			// Extensible wraps the real format in the sub-format GUID.
			if audioFormat == formatExtensible {
				if size < 40 {
					return nil, fmt.Errorf("%w: extensible fmt chunk too short", ErrInvalidHeader)
				}

				audioFormat = binary.LittleEndian.Uint16(body[24:26])
			}

			haveFmt = true

		case "data":
			pcmData = body
		}

		pos += size
		if size%2 == 1 {
			pos++ // chunks are word aligned
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("%w: missing fmt chunk", ErrInvalidHeader)
	}

	if pcmData == nil {
		return nil, fmt.Errorf("%w: missing data chunk", ErrInvalidHeader)
	}

	if channels <= 0 {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidHeader, channels)
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidHeader, sampleRate)
	}

	decode, bytesPerSample, err := sampleDecoder(audioFormat, bitsPerSample)
	if err != nil {
		return nil, err
	}

	frameSize := bytesPerSample * channels
	frames := len(pcmData) / frameSize

	out := &Audio{
		SampleRate: sampleRate,
		Channels:   make([][]float64, channels),
	}
	for ch := range out.Channels {
		out.Channels[ch] = make([]float64, frames)
	}

	for f := range frames {
		base := f * frameSize
		for ch := 0; ch < channels; ch++ {
			off := base + ch*bytesPerSample
			out.Channels[ch][f] = decode(pcmData[off : off+bytesPerSample])
		}
	}

	return out, nil
}

// sampleDecoder maps a format tag and bit depth to a per-sample decode
// function and its byte width.
func sampleDecoder(format uint16, bits int) (func([]byte) float64, int, error) {
	switch {
	case format == formatPCM && bits == 16:
		return func(b []byte) float64 {
			return float64(int16(binary.LittleEndian.Uint16(b))) / 32768
		}, 2, nil

	case format == formatPCM && bits == 24:
		return func(b []byte) float64 {
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if v&0x800000 != 0 {
				v -= 1 << 24
			}

			return float64(v) / 8388608
		}, 3, nil

	case format == formatPCM && bits == 32:
		return func(b []byte) float64 {
			return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648
		}, 4, nil

	case format == formatIEEEFloat && bits == 32:
		return func(b []byte) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}, 4, nil

	case format == formatIEEEFloat && bits == 64:
		return func(b []byte) float64 {
			return math.Float64frombits(binary.LittleEndian.Uint64(b))
		}, 8, nil
	}

	return nil, 0, fmt.Errorf("%w: format tag %d at %d bits", ErrUnsupportedFormat, format, bits)
}

// Encode serializes mono float64 samples as a 16-bit PCM WAVE stream.
// Samples are clamped to [-1, 1].
func Encode(sampleRate int, samples []float64) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wav: encode sample rate must be > 0: %d", sampleRate)
	}

	const (
		channels       = 1
		bytesPerSample = 2
	)

	dataSize := len(samples) * bytesPerSample

	var buf bytes.Buffer

	buf.Grow(44 + dataSize)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(formatPCM))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*bytesPerSample))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*bytesPerSample))
	binary.Write(&buf, binary.LittleEndian, uint16(8*bytesPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))

	for _, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}

		v := int16(math.Round(s * 32767))
		binary.Write(&buf, binary.LittleEndian, v)
	}

	return buf.Bytes(), nil
}
