// ABOUTME: Decoder interface definition and codec dispatch
// ABOUTME: Common interface for all audio file decoders
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Resonate-Protocol/resonate-waveform/pkg/audio"
)

// ErrUnsupportedFormat is returned for codecs and file types with no decoder
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decoder decodes a complete encoded audio stream to 16-bit PCM
type Decoder interface {
	// Decode reads the whole stream and returns the decoded clip
	Decode(r io.Reader) (*audio.Clip, error)

	// Close releases decoder resources
	Close() error
}

// Codecs lists the codec names accepted by New
func Codecs() []string {
	return []string{"pcm", "wav", "mp3", "flac", "opus", "vorbis"}
}

// New creates a decoder for format.Codec
func New(format audio.Format) (Decoder, error) {
	switch format.Codec {
	case "pcm":
		return NewPCM(format)
	case "wav":
		return NewWAV(format)
	case "mp3":
		return NewMP3(format)
	case "flac":
		return NewFLAC(format)
	case "opus":
		return NewOpus(format)
	case "vorbis":
		return NewVorbis(format)
	default:
		return nil, fmt.Errorf("%w: codec %q", ErrUnsupportedFormat, format.Codec)
	}
}

// CodecForPath picks a codec from a file name extension
func CodecForPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".wave":
		return "wav", nil
	case ".mp3":
		return "mp3", nil
	case ".flac":
		return "flac", nil
	case ".opus":
		return "opus", nil
	case ".ogg", ".oga":
		return "vorbis", nil
	case ".pcm", ".raw", ".s16":
		return "pcm", nil
	default:
		return "", fmt.Errorf("%w: %q (supported: .wav, .mp3, .flac, .opus, .ogg, .pcm)", ErrUnsupportedFormat, ext)
	}
}

// DecodeFile opens path, picks a decoder by extension and decodes it.
// Raw PCM files are read as mono 44.1kHz.
func DecodeFile(path string) (*audio.Clip, error) {
	codec, err := CodecForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	return DecodeReader(f, audio.Format{Codec: codec, SampleRate: 44100, Channels: 1, BitDepth: 16})
}

// DecodeReader decodes r with the decoder for format.Codec
func DecodeReader(r io.Reader, format audio.Format) (*audio.Clip, error) {
	decoder, err := New(format)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	clip, err := decoder.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s decode failed: %w", format.Codec, err)
	}
	return clip, nil
}

// readSeeker returns r as an io.ReadSeeker, buffering it in memory if needed
func readSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
