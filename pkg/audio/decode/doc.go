// ABOUTME: Audio decoder package for multiple file formats
// ABOUTME: Provides Decoder interface and implementations for PCM, WAV, MP3, FLAC, Opus, Vorbis
// Package decode turns encoded audio files into 16-bit PCM clips.
//
// Supports: raw PCM (16-bit little-endian), WAV, MP3, FLAC, Ogg Opus and
// Ogg Vorbis.
//
// All decoders implement the Decoder interface and produce an audio.Clip of
// interleaved int16 samples; higher bit depths are scaled down and float
// sources are clamped.
//
// Example:
//
//	decoder, err := decode.New(audio.Format{Codec: "flac"})
//	clip, err := decoder.Decode(file)
//
//	// or, by file extension
//	clip, err := decode.DecodeFile("episode.mp3")
package decode
