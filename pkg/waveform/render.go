// ABOUTME: Waveform render entry point
// ABOUTME: Runs the partition, aggregate and layout pass and fills the bitmap
package waveform

import (
	"errors"
	"image"
	"image/color"
)

// ErrNoSamples is returned when the sample sequence is empty
var ErrNoSamples = errors.New("no samples to render")

// Bar is the computed layout of one waveform bar
type Bar struct {
	Index int
	Span  Span
	Min   int16
	Max   int16
	Rect  image.Rectangle // Pixel area to fill; empty for bars without samples
}

// Empty reports whether the bar received no samples
func (b Bar) Empty() bool {
	return b.Span.Len() == 0
}

// Layout computes every bar of a render without touching pixels.
// The returned slice has BarCount(cfg.Width, cfg.BarWidth, cfg.BarPadding)
// entries in left-to-right order.
func Layout(samples []int16, cfg Config) ([]Bar, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	sc := newScaler(cfg)
	step := cfg.BarWidth + cfg.BarPadding
	spans := Partition(len(samples), BarCount(cfg.Width, cfg.BarWidth, cfg.BarPadding))

	bars := make([]Bar, len(spans))
	for k, span := range spans {
		bar := Bar{Index: k, Span: span}

		e := aggregate(samples[span.Start:span.End])
		if !e.empty() {
			bar.Min, bar.Max = e.min, e.max
			bar.Rect = sc.barRect(cfg.Mode, cfg.Height, k*step, cfg.BarWidth, e)
		}
		bars[k] = bar
	}
	return bars, nil
}

// Render draws the waveform of samples into a new Width x Height bitmap.
// Pixels not covered by a bar stay fully transparent. Identical inputs
// always produce identical pixels.
func Render(samples []int16, cfg Config) (*image.NRGBA, error) {
	bars, err := Layout(samples, cfg)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	for _, bar := range bars {
		fillRect(img, bar.Rect, cfg.Color)
	}
	return img, nil
}

// fillRect writes c into every pixel of r, clipped to the image bounds.
// Bytes are stored as given; no blending with the background.
func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}

	px := [4]byte{c.R, c.G, c.B, c.A}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			copy(row[i:i+4], px[:])
		}
	}
}
