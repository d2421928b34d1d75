// ABOUTME: WAV audio decoder
// ABOUTME: Decodes RIFF/WAVE integer PCM files to a clip
package decode

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Resonate-Protocol/resonate-waveform/pkg/audio"
)

// WAVE format tags for integer PCM
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// WAVDecoder decodes WAV audio
type WAVDecoder struct {
	format audio.Format
}

// NewWAV creates a new WAV decoder
func NewWAV(format audio.Format) (Decoder, error) {
	if format.Codec != "wav" {
		return nil, fmt.Errorf("invalid codec for WAV decoder: %s", format.Codec)
	}

	return &WAVDecoder{
		format: format,
	}, nil
}

// Decode reads the whole WAV file. Sample rate, channels and bit depth come
// from the file header.
func (d *WAVDecoder) Decode(r io.Reader) (*audio.Clip, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV data: %w", err)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("unsupported WAV encoding: format tag %d (supported: integer PCM)", dec.WavAudioFormat)
	}

	var buf *goaudio.IntBuffer
	buf, err = dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		if bitDepth == 8 {
			// 8-bit WAV is unsigned with a 128 midpoint
			v -= 128
		}
		samples[i] = audio.ScaleToInt16(int32(v), bitDepth)
	}

	return &audio.Clip{
		Format: audio.Format{
			Codec:      "wav",
			SampleRate: int(dec.SampleRate),
			Channels:   int(dec.NumChans),
			BitDepth:   bitDepth,
		},
		Samples: samples,
	}, nil
}

// Close releases decoder resources
func (d *WAVDecoder) Close() error {
	return nil
}
