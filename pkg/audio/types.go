// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats, decoded clips and sample conversions
package audio

import (
	"errors"
	"fmt"
	"math"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// ErrNoChannel is returned when a clip has no such channel
var ErrNoChannel = errors.New("channel out of range")

// Format describes a decoded audio stream
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int // Bit depth of the source before conversion to 16-bit
}

// Clip is a fully decoded piece of audio
type Clip struct {
	Format  Format
	Samples []int16 // Interleaved 16-bit PCM, Format.Channels per frame
}

// Frames returns the number of samples per channel
func (c *Clip) Frames() int {
	if c.Format.Channels <= 0 {
		return len(c.Samples)
	}
	return len(c.Samples) / c.Format.Channels
}

// Duration returns the clip length in seconds
func (c *Clip) Duration() float64 {
	if c.Format.SampleRate <= 0 {
		return 0
	}
	return float64(c.Frames()) / float64(c.Format.SampleRate)
}

// Channel returns a copy of one channel's samples. Channels are never mixed.
func (c *Clip) Channel(ch int) ([]int16, error) {
	channels := c.Format.Channels
	if channels <= 1 {
		if ch != 0 {
			return nil, fmt.Errorf("%w: %d (clip has 1 channel)", ErrNoChannel, ch)
		}
		out := make([]int16, len(c.Samples))
		copy(out, c.Samples)
		return out, nil
	}
	if ch < 0 || ch >= channels {
		return nil, fmt.Errorf("%w: %d (clip has %d channels)", ErrNoChannel, ch, channels)
	}

	out := make([]int16, c.Frames())
	for i := range out {
		out[i] = c.Samples[i*channels+ch]
	}
	return out, nil
}

// SampleToInt16 converts a 24-bit sample held in int32 to int16
func SampleToInt16(sample int32) int16 {
	// Right-shift to drop the low 8 bits
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// ScaleToInt16 converts a signed integer sample of the given bit depth
// to the 16-bit range
func ScaleToInt16(sample int32, bitDepth int) int16 {
	switch {
	case bitDepth == 16:
		return int16(sample)
	case bitDepth > 16:
		return int16(sample >> (bitDepth - 16))
	case bitDepth > 0:
		return int16(sample << (16 - bitDepth))
	default:
		return int16(sample)
	}
}

// FloatToInt16 converts a [-1, 1] float sample to int16, clamping overflow
func FloatToInt16(sample float32) int16 {
	if sample >= 1 {
		return math.MaxInt16
	}
	if sample <= -1 {
		return math.MinInt16
	}
	return int16(sample * math.MaxInt16)
}
