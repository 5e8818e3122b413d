package calculator

import (
	"errors"
	"math"

	"github.com/markcheno/go-talib"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, ErrInsufficientData
	}
	return last(SMASeries(prices[len(prices)-period:], period)), nil
}

// SMASeries returns the rolling simple mean; the warm-up prefix is NaN.
func SMASeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSeries(len(values))
	}
	return maskWarmup(talib.Sma(values, period), period-1)
}

// EMASeries returns the exponential moving average with alpha = 2/(span+1),
// seeded with the first value (no bias adjustment).
func EMASeries(values []float64, span int) []float64 {
	return ewm(values, 2.0/(float64(span)+1))
}

// ewm is the recursive exponential mean out = a*x + (1-a)*prev. NaN inputs before
// the first finite value stay NaN; later NaN inputs carry the previous output.
func ewm(values []float64, alpha float64) []float64 {
	out := make([]float64, len(values))
	prev := math.NaN()
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = prev
			continue
		case math.IsNaN(prev):
			prev = v
		default:
			prev = alpha*v + (1-alpha)*prev
		}
		out[i] = prev
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func maskWarmup(out []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}

// rollingSum sums each trailing window of n values; any NaN in the window yields NaN.
func rollingSum(values []float64, n int) []float64 {
	out := nanSeries(len(values))
	for i := n - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - n + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum
	}
	return out
}

func rollingMean(values []float64, n int) []float64 {
	out := rollingSum(values, n)
	for i := range out {
		out[i] /= float64(n)
	}
	return out
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

func penultimate(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	return values[len(values)-2]
}
