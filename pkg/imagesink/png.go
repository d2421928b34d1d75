// ABOUTME: PNG image encoder
// ABOUTME: Lossless encoding that keeps the transparent background
package imagesink

import (
	"image"
	"image/png"
	"io"
)

// PNGEncoder encodes PNG images
type PNGEncoder struct {
	enc png.Encoder
}

// NewPNG creates a PNG encoder using best compression
func NewPNG() *PNGEncoder {
	return &PNGEncoder{
		enc: png.Encoder{CompressionLevel: png.BestCompression},
	}
}

func (e *PNGEncoder) Encode(w io.Writer, img image.Image) error {
	return e.enc.Encode(w, img)
}

func (e *PNGEncoder) Format() string      { return "png" }
func (e *PNGEncoder) Extension() string   { return ".png" }
func (e *PNGEncoder) ContentType() string { return "image/png" }
