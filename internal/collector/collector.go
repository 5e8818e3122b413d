package collector

import (
	"context"
	"fmt"

	"AlphaScanner/internal/model"
)

// DefaultDays is how many daily bars the collector requests per symbol.
const DefaultDays = 120

// Collector turns raw fetcher output into a validated BarSeries.
type Collector struct {
	Fetcher Fetcher
	Days    int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, days int) *Collector {
	if days <= 0 {
		days = DefaultDays
	}
	return &Collector{Fetcher: fetcher, Days: days}
}

// Collect fetches daily bars for symbol and validates them into a series.
func (c *Collector) Collect(ctx context.Context, symbol, name string) (*model.BarSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch daily bars %s: %w", symbol, ErrUnavailable)
	}
	series, err := model.NewBarSeries(symbol, name, bars)
	if err != nil {
		return nil, err
	}
	return series, nil
}
