package pattern

import (
	"fmt"

	"AlphaScanner/internal/model"
)

// Window is an immutable view of the most recent bars of a series.
// At(-1) is the latest bar and At(-Len()) the oldest.
type Window struct {
	bars []model.Bar
}

// NewWindow copies bars into a window. bars must be oldest first.
func NewWindow(bars []model.Bar) Window {
	cp := make([]model.Bar, len(bars))
	copy(cp, bars)
	return Window{bars: cp}
}

// Len returns the number of bars in the window.
func (w Window) Len() int { return len(w.bars) }

// At returns the bar at a negative offset from the end.
func (w Window) At(i int) model.Bar {
	if i >= 0 || -i > len(w.bars) {
		panic(fmt.Sprintf("pattern: offset %d outside window of %d bars", i, len(w.bars)))
	}
	return w.bars[len(w.bars)+i]
}

// AvgBody is the mean body over n bars ending at offset end (inclusive).
func (w Window) AvgBody(end, n int) float64 {
	sum := 0.0
	for i := end - n + 1; i <= end; i++ {
		sum += w.At(i).Body()
	}
	return sum / float64(n)
}

// MinLow is the lowest low over the last n bars.
func (w Window) MinLow(n int) float64 {
	low := w.At(-1).Low
	for i := -n; i < -1; i++ {
		low = min(low, w.At(i).Low)
	}
	return low
}

// MaxClose is the highest close over the last n bars.
func (w Window) MaxClose(n int) float64 {
	c := w.At(-1).Close
	for i := -n; i < -1; i++ {
		c = max(c, w.At(i).Close)
	}
	return c
}
