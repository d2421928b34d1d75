// ABOUTME: Tests for PCM decoder
// ABOUTME: Tests raw 16-bit PCM decoding and format validation
package decode

import (
	"bytes"
	"testing"

	"github.com/Resonate-Protocol/resonate-waveform/pkg/audio"
)

func TestNewPCM(t *testing.T) {
	format := audio.Format{
		Codec:      "pcm",
		SampleRate: 48000,
		Channels:   2,
		BitDepth:   16,
	}

	decoder, err := NewPCM(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if decoder == nil {
		t.Fatal("expected decoder to be created")
	}
}

func TestPCMDecode16Bit(t *testing.T) {
	format := audio.Format{
		Codec:      "pcm",
		SampleRate: 48000,
		Channels:   2,
		BitDepth:   16,
	}

	decoder, err := NewPCM(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// Input: 4 bytes -> Output: 2 int16 samples (little-endian)
	input := []byte{0x00, 0x01, 0xff, 0xff}
	clip, err := decoder.Decode(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(clip.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(clip.Samples))
	}

	// 0x00, 0x01 -> 0x0100 = 256
	if clip.Samples[0] != 256 {
		t.Errorf("expected first sample 256, got %d", clip.Samples[0])
	}
	// 0xff, 0xff -> -1
	if clip.Samples[1] != -1 {
		t.Errorf("expected second sample -1, got %d", clip.Samples[1])
	}

	if clip.Format != format {
		t.Errorf("expected format %+v, got %+v", format, clip.Format)
	}
}

func TestPCMDecode_DefaultsToMono(t *testing.T) {
	decoder, err := NewPCM(audio.Format{Codec: "pcm", SampleRate: 8000})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	clip, err := decoder.Decode(bytes.NewReader([]byte{1, 0, 2, 0, 3}))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if clip.Format.Channels != 1 || clip.Format.BitDepth != 16 {
		t.Errorf("expected mono 16-bit defaults, got %+v", clip.Format)
	}
	// Trailing odd byte is dropped
	if len(clip.Samples) != 2 {
		t.Errorf("expected 2 samples, got %d", len(clip.Samples))
	}
}

func TestNewPCM_InvalidCodec(t *testing.T) {
	format := audio.Format{
		Codec:      "opus",
		SampleRate: 48000,
		Channels:   2,
		BitDepth:   16,
	}

	decoder, err := NewPCM(format)
	if err == nil {
		t.Fatal("expected error for invalid codec, got nil")
	}

	if decoder != nil {
		t.Fatal("expected decoder to be nil for invalid codec")
	}

	expectedError := "invalid codec for PCM decoder: opus"
	if err.Error() != expectedError {
		t.Errorf("expected error %q, got %q", expectedError, err.Error())
	}
}

func TestNewPCM_UnsupportedBitDepth(t *testing.T) {
	format := audio.Format{
		Codec:      "pcm",
		SampleRate: 48000,
		Channels:   2,
		BitDepth:   24,
	}

	decoder, err := NewPCM(format)
	if err == nil {
		t.Fatal("expected error for unsupported bit depth, got nil")
	}

	if decoder != nil {
		t.Fatal("expected decoder to be nil for unsupported bit depth")
	}

	expectedError := "unsupported bit depth: 24 (supported: 16)"
	if err.Error() != expectedError {
		t.Errorf("expected error %q, got %q", expectedError, err.Error())
	}
}

func TestPCMDecode_EmptyInput(t *testing.T) {
	decoder, err := NewPCM(audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 16})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// Test with empty byte slice
	clip, err := decoder.Decode(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("decode failed with empty input: %v", err)
	}

	if len(clip.Samples) != 0 {
		t.Errorf("expected 0 samples from empty input, got %d", len(clip.Samples))
	}
}
