package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidSeries is returned when bars violate ordering or OHLC invariants.
var ErrInvalidSeries = errors.New("invalid bar series")

// Bar represents one trading day.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Body is the absolute open/close distance.
func (b Bar) Body() float64 {
	if b.Close > b.Open {
		return b.Close - b.Open
	}
	return b.Open - b.Close
}

// UpperShadow is the distance from the top of the body to the high.
func (b Bar) UpperShadow() float64 {
	return b.High - max(b.Open, b.Close)
}

// LowerShadow is the distance from the bottom of the body to the low.
func (b Bar) LowerShadow() float64 {
	return min(b.Open, b.Close) - b.Low
}

func (b Bar) Bullish() bool { return b.Close > b.Open }
func (b Bar) Bearish() bool { return b.Close < b.Open }

// BarSeries is a validated, chronologically ordered history for one symbol.
// The bars are never mutated after construction.
type BarSeries struct {
	Symbol string
	Name   string
	bars   []Bar
}

// NewBarSeries validates bars and returns a series. The input slice is copied.
func NewBarSeries(symbol, name string, bars []Bar) (*BarSeries, error) {
	for i, b := range bars {
		if err := validateBar(b); err != nil {
			return nil, fmt.Errorf("%w: %s bar %d (%s): %v", ErrInvalidSeries, symbol, i, b.Date.Format("2006-01-02"), err)
		}
		if i > 0 && !b.Date.After(bars[i-1].Date) {
			return nil, fmt.Errorf("%w: %s bar %d (%s) not after previous bar", ErrInvalidSeries, symbol, i, b.Date.Format("2006-01-02"))
		}
	}
	cp := make([]Bar, len(bars))
	copy(cp, bars)
	return &BarSeries{Symbol: symbol, Name: name, bars: cp}, nil
}

func validateBar(b Bar) error {
	for _, p := range [...]float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return errors.New("prices must be finite")
		}
	}
	switch {
	case b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0:
		return errors.New("prices must be positive")
	case b.Volume < 0:
		return errors.New("volume must be non-negative")
	case b.High < max(b.Open, b.Close):
		return errors.New("high below body")
	case b.Low > min(b.Open, b.Close):
		return errors.New("low above body")
	}
	return nil
}

// Len returns the number of bars.
func (s *BarSeries) Len() int { return len(s.bars) }

// Bar returns the i-th bar, oldest first.
func (s *BarSeries) Bar(i int) Bar { return s.bars[i] }

// Last returns the most recent bar. The series must not be empty.
func (s *BarSeries) Last() Bar { return s.bars[len(s.bars)-1] }

// Tail returns a copy of the last n bars (fewer if the series is shorter).
func (s *BarSeries) Tail(n int) []Bar {
	if n > len(s.bars) {
		n = len(s.bars)
	}
	out := make([]Bar, n)
	copy(out, s.bars[len(s.bars)-n:])
	return out
}

// Closes extracts the close column.
func (s *BarSeries) Closes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high column.
func (s *BarSeries) Highs() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low column.
func (s *BarSeries) Lows() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Low
	}
	return out
}

// Opens extracts the open column.
func (s *BarSeries) Opens() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Open
	}
	return out
}

// Volumes extracts the volume column as float64.
func (s *BarSeries) Volumes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = float64(b.Volume)
	}
	return out
}
