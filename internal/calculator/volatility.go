package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// TrueRangeSeries returns max(high-low, |high-prevClose|, |low-prevClose|).
// The first bar has no previous close and uses high-low.
func TrueRangeSeries(highs, lows, closes []float64) []float64 {
	tr := make([]float64, len(closes))
	for i := range closes {
		tr[i] = highs[i] - lows[i]
		if i == 0 {
			continue
		}
		tr[i] = max(tr[i], math.Abs(highs[i]-closes[i-1]), math.Abs(lows[i]-closes[i-1]))
	}
	return tr
}

// ATRSeries is the simple mean of true range over period bars.
func ATRSeries(highs, lows, closes []float64, period int) []float64 {
	return rollingMean(TrueRangeSeries(highs, lows, closes), period)
}

// Bands holds Bollinger band lines and the normalised width.
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
	Width  []float64
}

// BollingerSeries computes mean ± k population standard deviations over period closes.
func BollingerSeries(closes []float64, period int, k float64) Bands {
	n := len(closes)
	if period <= 0 || n < period {
		return Bands{Upper: nanSeries(n), Middle: nanSeries(n), Lower: nanSeries(n), Width: nanSeries(n)}
	}
	upper, middle, lower := talib.BBands(closes, period, k, k, talib.SMA)
	upper = maskWarmup(upper, period-1)
	middle = maskWarmup(middle, period-1)
	lower = maskWarmup(lower, period-1)

	width := nanSeries(n)
	for i := range middle {
		if middle[i] > 0 {
			width[i] = (upper[i] - lower[i]) / middle[i]
		}
	}
	return Bands{Upper: upper, Middle: middle, Lower: lower, Width: width}
}
