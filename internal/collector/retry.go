package collector

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"AlphaScanner/internal/model"
)

// RetryFetcher retries transient failures of Inner with exponential backoff.
// ErrUnavailable, context errors and 4xx responses are not retried.
type RetryFetcher struct {
	Inner           Fetcher
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// NewRetryFetcher wraps inner with three retries starting at 500ms.
func NewRetryFetcher(inner Fetcher) *RetryFetcher {
	return &RetryFetcher{
		Inner:           inner,
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

func (f *RetryFetcher) Name() string { return f.Inner.Name() + "+retry" }

func (f *RetryFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error) {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = f.InitialInterval
	eb.MaxInterval = f.MaxInterval
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, f.MaxRetries), ctx)

	op := func() ([]model.Bar, error) {
		bars, err := f.Inner.FetchDailyBars(ctx, symbol, days)
		if err != nil && isPermanent(err) {
			return nil, backoff.Permanent(err)
		}
		return bars, err
	}
	notify := func(err error, next time.Duration) {
		log.Warn().Str("symbol", symbol).Str("source", f.Inner.Name()).Err(err).
			Dur("retry_in", next).Msg("fetch failed, retrying")
	}
	return backoff.RetryNotifyWithData[[]model.Bar](op, b, notify)
}

func isPermanent(err error) bool {
	if errors.Is(err, ErrUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var he *HTTPError
	return errors.As(err, &he) && he.Permanent()
}
