// ABOUTME: Amplitude-to-pixel mapping and per-mode bar geometry
// ABOUTME: Derives scale constants once per render and lays out each bar
package waveform

import (
	"image"
	"math"
)

const (
	// fullRange is MaxInt16 - MinInt16, the largest min-to-max distance
	fullRange = float64(math.MaxInt16) - float64(math.MinInt16)
	// halfRange is -MinInt16, the largest one-sided magnitude
	halfRange = -float64(math.MinInt16)
)

// scaler maps amplitude magnitudes to pixel heights for one render
type scaler struct {
	scale        Scale
	plotHeight   int
	maxPlotValue float64
	unitHeight   float64 // Pixels per amplitude unit, or per log2 unit
}

func newScaler(cfg Config) scaler {
	s := scaler{
		scale:        cfg.Scale,
		plotHeight:   cfg.Height,
		maxPlotValue: fullRange,
	}
	if cfg.Mode == Full {
		s.plotHeight = cfg.Height / 2
		s.maxPlotValue = halfRange
	}

	switch s.scale {
	case Logarithm:
		s.unitHeight = float64(s.plotHeight) / math.Log2(s.maxPlotValue)
	default:
		s.unitHeight = float64(s.plotHeight) / s.maxPlotValue
	}
	return s
}

// height maps a magnitude v >= 0 to whole pixels, rounding down.
// Linear: unitHeight * v.
// Logarithm: log2(v) * unitHeight, zero below 1.
func (s scaler) height(v float64) int {
	var h float64
	switch s.scale {
	case Linear:
		h = s.unitHeight * v
	case Logarithm:
		if v < 1 {
			return 0
		}
		h = math.Log2(v) * s.unitHeight
	}

	px := int(h)
	if px > s.plotHeight {
		px = s.plotHeight
	}
	if px < 0 {
		px = 0
	}
	return px
}

// barRect computes the rectangle to fill for one non-empty bar
func (s scaler) barRect(mode Mode, imageHeight, left, width int, e extent) image.Rectangle {
	switch mode {
	case Full:
		mid := s.plotHeight

		upper := s.height(math.Abs(float64(e.max)))
		top := mid + upper
		if e.max > 0 {
			top = mid - upper
		}

		lower := s.height(math.Abs(float64(e.min)))
		bottom := mid + lower
		if e.min > 0 {
			bottom = mid - lower
		}
		if bottom < top {
			bottom = top
		}
		return image.Rectangle{Min: image.Pt(left, top), Max: image.Pt(left+width, bottom)}

	case FullSymmetry:
		h := s.height(float64(e.max) - float64(e.min))
		top := (imageHeight - h) / 2
		return image.Rectangle{Min: image.Pt(left, top), Max: image.Pt(left+width, top+h)}

	default:
		h := s.height(float64(e.max) - float64(e.min))
		top := imageHeight - h
		return image.Rectangle{Min: image.Pt(left, top), Max: image.Pt(left+width, imageHeight)}
	}
}
