// ABOUTME: Render configuration for waveform images
// ABOUTME: Defines layout and scale modes, validation and flag-friendly parsers
package waveform

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Mode selects the vertical layout of each bar
type Mode int

const (
	// Half anchors each bar to the bottom edge
	Half Mode = iota
	// Full splits each bar around the horizontal midline
	Full
	// FullSymmetry centers each bar vertically
	FullSymmetry
)

func (m Mode) String() string {
	switch m {
	case Half:
		return "half"
	case Full:
		return "full"
	case FullSymmetry:
		return "full-symmetry"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Modes lists every layout mode in declaration order
func Modes() []Mode {
	return []Mode{Half, Full, FullSymmetry}
}

// ParseMode parses a mode name as printed by Mode.String
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "half":
		return Half, nil
	case "full":
		return Full, nil
	case "full-symmetry", "fullsymmetry", "symmetric":
		return FullSymmetry, nil
	default:
		return 0, fmt.Errorf("unknown waveform mode: %q (supported: half, full, full-symmetry)", s)
	}
}

// Scale selects how amplitude maps to pixel height
type Scale int

const (
	// Linear maps amplitude proportionally to height
	Linear Scale = iota
	// Logarithm maps amplitude through log2, compressing dynamic range
	Logarithm
)

func (s Scale) String() string {
	switch s {
	case Linear:
		return "linear"
	case Logarithm:
		return "logarithm"
	default:
		return fmt.Sprintf("scale(%d)", int(s))
	}
}

// Scales lists every scale mode in declaration order
func Scales() []Scale {
	return []Scale{Linear, Logarithm}
}

// ParseScale parses a scale name as printed by Scale.String
func ParseScale(s string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "lin":
		return Linear, nil
	case "logarithm", "log":
		return Logarithm, nil
	default:
		return 0, fmt.Errorf("unknown waveform scale: %q (supported: linear, logarithm)", s)
	}
}

// Config describes one render
type Config struct {
	Width      int // Image width in pixels
	Height     int // Image height in pixels
	BarWidth   int // Width of each bar in pixels
	BarPadding int // Gap between bars in pixels
	Mode       Mode
	Scale      Scale
	Color      color.NRGBA // Bar fill color (straight alpha)
}

// DefaultConfig returns the settings used by the command-line tools
func DefaultConfig() Config {
	return Config{
		Width:      3200,
		Height:     800,
		BarWidth:   20,
		BarPadding: 5,
		Mode:       Half,
		Scale:      Linear,
		Color:      color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// ErrInvalidConfig is wrapped by every ConfigError
var ErrInvalidConfig = errors.New("invalid render config")

// ConfigError reports which Config field was rejected
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid render config: %s %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Validate checks the config before any pixel work starts
func (c Config) Validate() error {
	if c.Width <= 0 {
		return &ConfigError{Field: "width", Reason: fmt.Sprintf("must be positive, got %d", c.Width)}
	}
	if c.Height <= 0 {
		return &ConfigError{Field: "height", Reason: fmt.Sprintf("must be positive, got %d", c.Height)}
	}
	// The NRGBA buffer holds 4 bytes per pixel and its length must fit an int
	if c.Width > math.MaxInt/4 {
		return &ConfigError{Field: "width", Reason: fmt.Sprintf("%d overflows the pixel buffer", c.Width)}
	}
	if c.Height > math.MaxInt/4/c.Width {
		return &ConfigError{Field: "height", Reason: fmt.Sprintf("%d overflows the pixel buffer at width %d", c.Height, c.Width)}
	}
	if c.BarWidth <= 0 {
		return &ConfigError{Field: "bar width", Reason: fmt.Sprintf("must be positive, got %d", c.BarWidth)}
	}
	if c.BarPadding < 0 {
		return &ConfigError{Field: "bar padding", Reason: fmt.Sprintf("must not be negative, got %d", c.BarPadding)}
	}
	if BarCount(c.Width, c.BarWidth, c.BarPadding) == 0 {
		return &ConfigError{Field: "bar width", Reason: fmt.Sprintf("%d does not fit image width %d", c.BarWidth, c.Width)}
	}
	switch c.Mode {
	case Half, Full, FullSymmetry:
	default:
		return &ConfigError{Field: "mode", Reason: fmt.Sprintf("unknown value %d", int(c.Mode))}
	}
	switch c.Scale {
	case Linear, Logarithm:
	default:
		return &ConfigError{Field: "scale", Reason: fmt.Sprintf("unknown value %d", int(c.Scale))}
	}
	return nil
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa (the leading # is optional)
func ParseColor(s string) (color.NRGBA, error) {
	hexStr := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hexStr) == 3 {
		hexStr = string([]byte{hexStr[0], hexStr[0], hexStr[1], hexStr[1], hexStr[2], hexStr[2]})
	}
	if len(hexStr) == 6 {
		hexStr += "ff"
	}
	if len(hexStr) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: expected #rgb, #rrggbb or #rrggbbaa", s)
	}

	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}

// FormatColor is the inverse of ParseColor, always producing #rrggbbaa
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
