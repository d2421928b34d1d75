// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Decodes .ogg files from float samples to a 16-bit clip
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/Resonate-Protocol/resonate-waveform/pkg/audio"
)

// VorbisDecoder decodes Ogg Vorbis audio
type VorbisDecoder struct {
	format audio.Format
}

// NewVorbis creates a new Vorbis decoder
func NewVorbis(format audio.Format) (Decoder, error) {
	if format.Codec != "vorbis" {
		return nil, fmt.Errorf("invalid codec for Vorbis decoder: %s", format.Codec)
	}

	return &VorbisDecoder{
		format: format,
	}, nil
}

// Decode reads interleaved float32 samples and clamps them to int16
func (d *VorbisDecoder) Decode(r io.Reader) (*audio.Clip, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := reader.Channels()
	var samples []int16
	if length := reader.Length(); length > 0 {
		samples = make([]int16, 0, int(length)*channels)
	}

	buf := make([]float32, 4096*channels)
	for {
		n, err := reader.Read(buf)
		for _, s := range buf[:n] {
			samples = append(samples, audio.FloatToInt16(s))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("vorbis decode error: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return &audio.Clip{
		Format: audio.Format{
			Codec:      "vorbis",
			SampleRate: reader.SampleRate(),
			Channels:   channels,
			BitDepth:   16,
		},
		Samples: samples,
	}, nil
}

// Close releases decoder resources
func (d *VorbisDecoder) Close() error {
	return nil
}
