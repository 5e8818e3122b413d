package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"AlphaScanner/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Bars and Errors are keyed by symbol; symbols in neither get a generated series
// drifting from Price.
type MockFetcher struct {
	Price  float64
	Drift  float64
	Bars   map[string][]model.Bar
	Errors map[string]error
	Delay  time.Duration
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error) {
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		out := make([]model.Bar, len(bars))
		copy(out, bars)
		return trimTail(out, days), nil
	}
	if m.Price <= 0 {
		return nil, fmt.Errorf("mock %s: %w", symbol, ErrUnavailable)
	}
	return GenerateBars(m.Price, m.Drift, days, time.Now()), nil
}

// GenerateBars builds count daily bars ending the day before end. Each close moves by
// drift (a fraction) with a small deterministic wobble.
func GenerateBars(basePrice, drift float64, count int, end time.Time) []model.Bar {
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, count)
	p := basePrice
	for i := 0; i < count; i++ {
		p *= 1 + drift + 0.004*math.Sin(float64(i))
		open := p * (1 - 0.002*math.Cos(float64(i)))
		bars[i] = model.Bar{
			Date:   last.AddDate(0, 0, -(count - i)),
			Open:   open,
			High:   math.Max(open, p) * 1.005,
			Low:    math.Min(open, p) * 0.995,
			Close:  p,
			Volume: 1000000 + int64(i%7)*50000,
		}
	}
	return bars
}
