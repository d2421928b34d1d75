// ABOUTME: Tests for amplitude-to-pixel mapping
// ABOUTME: Verifies scale constants, peaks and the logarithmic floor
package waveform

import (
	"math"
	"testing"
)

func TestScaler_PlotConstants(t *testing.T) {
	tests := []struct {
		mode         Mode
		plotHeight   int
		maxPlotValue float64
	}{
		{Half, 800, 65535},
		{FullSymmetry, 800, 65535},
		{Full, 400, 32768},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mode = tt.mode
			s := newScaler(cfg)

			if s.plotHeight != tt.plotHeight {
				t.Errorf("expected plot height %d, got %d", tt.plotHeight, s.plotHeight)
			}
			if s.maxPlotValue != tt.maxPlotValue {
				t.Errorf("expected max plot value %v, got %v", tt.maxPlotValue, s.maxPlotValue)
			}
		})
	}
}

func TestScaler_Height(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		scale    Scale
		value    float64
		expected int
	}{
		{"linear zero", Half, Linear, 0, 0},
		{"linear peak", Half, Linear, 65535, 100},
		{"linear half", Half, Linear, 32768, 50},
		{"linear rounds down", Half, Linear, 655, 0},
		{"full linear peak", Full, Linear, 32768, 50},
		{"log peak", Half, Logarithm, 65535, 100},
		{"log one is silent", Half, Logarithm, 1, 0},
		{"log 256", Half, Logarithm, 256, 50},
		{"full log peak", Full, Logarithm, 32768, 50},
		{"full log 8", Full, Logarithm, 8, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := column(100, tt.mode, tt.scale)
			s := newScaler(cfg)

			result := s.height(tt.value)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestScaler_HeightUsesUnitHeight(t *testing.T) {
	// 39835 * 51 / 65535 is just above 31; dividing by the range first
	// lands just below it
	tests := []struct {
		name     string
		height   int
		mode     Mode
		scale    Scale
		value    float64
		expected int
	}{
		{"linear odd height", 51, Half, Linear, 39835, 31},
		{"linear default canvas", 800, Half, Linear, 65535, 800},
		{"full linear", 51, Full, Linear, 16384, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := column(tt.height, tt.mode, tt.scale)
			s := newScaler(cfg)

			result := s.height(tt.value)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestScaler_UnitHeight(t *testing.T) {
	linear := newScaler(column(51, Half, Linear))
	if want := 51 / fullRange; linear.unitHeight != want {
		t.Errorf("linear unit height: expected %v, got %v", want, linear.unitHeight)
	}

	log := newScaler(column(100, Full, Logarithm))
	if want := 50 / math.Log2(halfRange); log.unitHeight != want {
		t.Errorf("log unit height: expected %v, got %v", want, log.unitHeight)
	}
}

func TestScaler_LogFloor(t *testing.T) {
	s := newScaler(column(100, Half, Logarithm))

	for _, v := range []float64{0, 0.25, 0.5, 0.999} {
		if h := s.height(v); h != 0 {
			t.Errorf("expected height 0 for %v, got %d", v, h)
		}
	}
}

func TestScaler_NeverExceedsPlot(t *testing.T) {
	for _, mode := range Modes() {
		for _, scale := range Scales() {
			s := newScaler(column(333, mode, scale))
			if h := s.height(math.MaxUint16); h > s.plotHeight {
				t.Errorf("%s/%s: height %d exceeds plot %d", mode, scale, h, s.plotHeight)
			}
		}
	}
}
