// ABOUTME: Encoder interface definition and format dispatch
// ABOUTME: Common interface for all image encoders plus file helpers
package imagesink

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for unknown image formats
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Encoder writes an image in one file format
type Encoder interface {
	// Encode writes img to w
	Encode(w io.Writer, img image.Image) error

	// Format returns the canonical format name (png, jpeg, bmp, tiff)
	Format() string

	// Extension returns the file extension including the dot
	Extension() string

	// ContentType returns the MIME type
	ContentType() string
}

// Formats lists the format names accepted by New
func Formats() []string {
	return []string{"png", "jpeg", "bmp", "tiff"}
}

// New creates an encoder for a format name
func New(format string) (Encoder, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "png":
		return NewPNG(), nil
	case "jpeg", "jpg":
		return NewJPEG(DefaultJPEGQuality), nil
	case "bmp":
		return NewBMP(), nil
	case "tiff", "tif":
		return NewTIFF(), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: png, jpeg, bmp, tiff)", ErrUnsupportedFormat, format)
	}
}

// FormatForPath picks an encoder from a file name extension
func FormatForPath(path string) (Encoder, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}
	return New(ext)
}

// WriteFile encodes img into a new file at path
func WriteFile(path string, img image.Image, enc Encoder) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := enc.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode %s: %w", enc.Format(), err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close image file: %w", err)
	}
	return nil
}
