// ABOUTME: TIFF image encoder
// ABOUTME: Deflate-compressed TIFF output via golang.org/x/image
package imagesink

import (
	"image"
	"io"

	"golang.org/x/image/tiff"
)

// TIFFEncoder encodes TIFF images
type TIFFEncoder struct {
	opts tiff.Options
}

// NewTIFF creates a deflate-compressed TIFF encoder
func NewTIFF() *TIFFEncoder {
	return &TIFFEncoder{
		opts: tiff.Options{Compression: tiff.Deflate},
	}
}

func (e *TIFFEncoder) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &e.opts)
}

func (e *TIFFEncoder) Format() string      { return "tiff" }
func (e *TIFFEncoder) Extension() string   { return ".tiff" }
func (e *TIFFEncoder) ContentType() string { return "image/tiff" }
