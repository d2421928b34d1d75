// ABOUTME: Waveform rendering package
// ABOUTME: Turns a 16-bit sample sequence into a bar-style waveform bitmap
// Package waveform renders a sequence of 16-bit signed samples into a bitmap
// of vertical bars, in the style of audio editors and podcast players.
//
// The sample sequence is partitioned into as many bars as fit the image
// width. Each bar takes the minimum and maximum sample of its share, maps the
// amplitude to a pixel height under a Scale, and is laid out under a Mode:
//   - Half: one bar grown upward from the bottom edge
//   - FullSymmetry: the same bar, vertically centered
//   - Full: a two-sided bar split around the horizontal midline
//
// Example:
//
//	cfg := waveform.DefaultConfig()
//	cfg.Mode = waveform.Full
//	cfg.Scale = waveform.Logarithm
//
//	img, err := waveform.Render(samples, cfg)
//	if err != nil {
//	    return err
//	}
//	// img is an *image.NRGBA of cfg.Width x cfg.Height
package waveform
