// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Clip types and sample conversion functions
// Package audio provides the audio types shared by the decoders and the
// waveform tools.
//
// This package defines:
//   - Format: Describes a decoded stream (codec, sample rate, channels, bit depth)
//   - Clip: A fully decoded piece of audio as interleaved 16-bit samples
//
// It also provides sample conversions:
//   - 16-bit ↔ 24-bit
//   - arbitrary integer bit depth → 16-bit
//   - float32 → 16-bit
//
// Example:
//
//	clip, err := decode.DecodeFile("episode.flac")
//	left, err := clip.Channel(0)
//	img, err := waveform.Render(left, waveform.DefaultConfig())
package audio
