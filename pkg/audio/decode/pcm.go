// ABOUTME: Raw PCM audio decoder
// ABOUTME: Decodes headerless 16-bit little-endian PCM to a clip
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/resonate-waveform/pkg/audio"
)

// PCMDecoder decodes raw PCM audio
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new PCM decoder. Raw PCM carries no header, so the
// sample rate and channel count come from format.
func NewPCM(format audio.Format) (Decoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if format.BitDepth == 0 {
		format.BitDepth = 16
	}
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}
	if format.Channels == 0 {
		format.Channels = 1
	}
	if format.Channels < 0 {
		return nil, fmt.Errorf("invalid channel count: %d", format.Channels)
	}

	return &PCMDecoder{
		format: format,
	}, nil
}

// Decode converts PCM bytes to int16 samples. A trailing odd byte is dropped.
func (d *PCMDecoder) Decode(r io.Reader) (*audio.Clip, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}

	// 16-bit PCM: 2 bytes per sample
	numSamples := len(data) / 2
	samples := make([]int16, numSamples)
	for i := 0; i < numSamples; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}

	return &audio.Clip{
		Format:  d.format,
		Samples: samples,
	}, nil
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}
