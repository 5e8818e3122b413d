package collector

import (
	"context"
	"errors"
	"fmt"

	"AlphaScanner/internal/model"
)

// ErrUnavailable means the source has no data for the symbol.
var ErrUnavailable = errors.New("data unavailable")

// Fetcher returns daily bars ordered oldest to newest.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error)
	Name() string
}

// HTTPError is a non-200 response from a remote bar source.
type HTTPError struct {
	Source     string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: status %d, body: %s", e.Source, e.StatusCode, e.Body)
}

// Permanent reports whether retrying cannot help (4xx other than 429).
func (e *HTTPError) Permanent() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != 429
}

// trimTail keeps the newest n bars.
func trimTail(bars []model.Bar, n int) []model.Bar {
	if n > 0 && len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}
