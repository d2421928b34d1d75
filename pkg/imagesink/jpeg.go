// ABOUTME: JPEG image encoder
// ABOUTME: Flattens transparency onto a solid background before encoding
package imagesink

import (
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"
)

// DefaultJPEGQuality is used by New for "jpeg"
const DefaultJPEGQuality = 90

// JPEGEncoder encodes JPEG images. JPEG has no alpha channel, so the image
// is composited over Background first.
type JPEGEncoder struct {
	Quality    int
	Background color.Color
}

// NewJPEG creates a JPEG encoder with a black background
func NewJPEG(quality int) *JPEGEncoder {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &JPEGEncoder{
		Quality:    quality,
		Background: color.Black,
	}
}

func (e *JPEGEncoder) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, flatten(img, e.Background), &jpeg.Options{Quality: e.Quality})
}

func (e *JPEGEncoder) Format() string      { return "jpeg" }
func (e *JPEGEncoder) Extension() string   { return ".jpg" }
func (e *JPEGEncoder) ContentType() string { return "image/jpeg" }

// flatten composites img over an opaque background
func flatten(img image.Image, bg color.Color) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Over)
	return dst
}
