// ABOUTME: Bar partitioning and per-bar amplitude aggregation
// ABOUTME: Splits a sample sequence into ordered, gap-free bar ranges
package waveform

import "math"

// Span is the half-open sample range [Start, End) owned by one bar
type Span struct {
	Start int
	End   int
}

// Len returns the number of samples in the span
func (s Span) Len() int {
	return s.End - s.Start
}

// BarCount returns how many bars of barWidth separated by barPadding fit
// into width: floor((width + barPadding) / (barWidth + barPadding)).
// The trailing bar needs no padding after it. The count is computed as
// 1 + (width - barWidth) / step so no intermediate sum can overflow.
func BarCount(width, barWidth, barPadding int) int {
	if width <= 0 || barWidth < 0 || barPadding < 0 || barWidth > width {
		return 0
	}
	if barPadding > math.MaxInt-barWidth {
		return 1
	}
	step := barWidth + barPadding
	if step == 0 {
		return 0
	}
	return 1 + (width-barWidth)/step
}

// Partition assigns n samples to bars in order. Sample i belongs to bar
// floor(i * bars / n); when n < bars some spans are empty.
func Partition(n, bars int) []Span {
	if bars <= 0 {
		return nil
	}

	spans := make([]Span, bars)
	start := 0
	for k := range spans {
		end := firstSample(k+1, n, bars)
		spans[k] = Span{Start: start, End: end}
		start = end
	}
	return spans
}

// firstSample returns the first sample index that maps to bar k, which is
// ceil(k * n / bars). firstSample(bars, n, bars) == n.
func firstSample(k, n, bars int) int {
	if n <= 0 {
		return 0
	}
	return int((int64(k)*int64(n) + int64(bars) - 1) / int64(bars))
}

// extent is the running (min, max) of one bar. The zero-sample state keeps
// the sentinels min = MaxInt16 and max = MinInt16.
type extent struct {
	min int16
	max int16
}

func newExtent() extent {
	return extent{min: math.MaxInt16, max: math.MinInt16}
}

func (e *extent) add(s int16) {
	if s < e.min {
		e.min = s
	}
	if s > e.max {
		e.max = s
	}
}

// empty reports whether no sample was added
func (e extent) empty() bool {
	return e.min > e.max
}

func aggregate(samples []int16) extent {
	e := newExtent()
	for _, s := range samples {
		e.add(s)
	}
	return e
}
