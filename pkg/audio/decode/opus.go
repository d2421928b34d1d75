// ABOUTME: Ogg Opus audio decoder
// ABOUTME: Decodes .opus files to a 48kHz clip via libopusfile
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/hraban/opus.v2"

	"github.com/Resonate-Protocol/resonate-waveform/pkg/audio"
)

const (
	// Opus always decodes at 48kHz
	opusSampleRate = 48000
	// Max frame size per channel (120ms at 48kHz)
	opusMaxFrame = 5760
)

// OpusDecoder decodes Ogg Opus audio
type OpusDecoder struct {
	format audio.Format
}

// NewOpus creates a new Opus decoder
func NewOpus(format audio.Format) (Decoder, error) {
	if format.Codec != "opus" {
		return nil, fmt.Errorf("invalid codec for Opus decoder: %s", format.Codec)
	}

	return &OpusDecoder{
		format: format,
	}, nil
}

// Decode converts a complete Ogg Opus stream to int16 samples
func (d *OpusDecoder) Decode(r io.Reader) (*audio.Clip, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read opus data: %w", err)
	}

	channels, ok := opusHeadChannels(data)
	if !ok {
		return nil, fmt.Errorf("missing OpusHead packet")
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create opus stream: %w", err)
	}
	defer stream.Close()

	pcm := make([]int16, opusMaxFrame*channels)
	var samples []int16
	for {
		n, err := stream.Read(pcm)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}
		if n == 0 {
			break
		}
		// n is samples per channel
		samples = append(samples, pcm[:n*channels]...)
	}

	return &audio.Clip{
		Format: audio.Format{
			Codec:      "opus",
			SampleRate: opusSampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
		Samples: samples,
	}, nil
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	return nil
}

// opusHeadChannels finds the OpusHead identification header in the first
// Ogg page and returns its output channel count (byte 9 of the packet).
func opusHeadChannels(data []byte) (int, bool) {
	const searchLimit = 512
	head := data
	if len(head) > searchLimit {
		head = head[:searchLimit]
	}

	idx := bytes.Index(head, []byte("OpusHead"))
	if idx < 0 || idx+9 >= len(data) {
		return 0, false
	}
	channels := int(data[idx+9])
	if channels == 0 {
		return 0, false
	}
	return channels, true
}
