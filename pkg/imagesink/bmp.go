// ABOUTME: BMP image encoder
// ABOUTME: Uncompressed bitmap output via golang.org/x/image
package imagesink

import (
	"image"
	"io"

	"golang.org/x/image/bmp"
)

// BMPEncoder encodes BMP images
type BMPEncoder struct{}

// NewBMP creates a BMP encoder
func NewBMP() *BMPEncoder {
	return &BMPEncoder{}
}

func (e *BMPEncoder) Encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

func (e *BMPEncoder) Format() string      { return "bmp" }
func (e *BMPEncoder) Extension() string   { return ".bmp" }
func (e *BMPEncoder) ContentType() string { return "image/bmp" }
