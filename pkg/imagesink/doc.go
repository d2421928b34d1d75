// ABOUTME: Image encoder package for persisting rendered waveforms
// ABOUTME: Provides Encoder interface and implementations for PNG, JPEG, BMP, TIFF
// Package imagesink encodes rendered waveform bitmaps to image files.
//
// Supports: PNG (lossless, keeps transparency), JPEG (flattened onto a
// background color), BMP and TIFF.
//
// Example:
//
//	enc, err := imagesink.New("png")
//	err = imagesink.WriteFile("waveform.png", img, enc)
package imagesink
