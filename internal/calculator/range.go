package calculator

import "github.com/markcheno/go-talib"

// HighestSeries is the rolling maximum over period values (NaN during warm-up).
func HighestSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSeries(len(values))
	}
	return maskWarmup(talib.Max(values, period), period-1)
}

// LowestSeries is the rolling minimum over period values (NaN during warm-up).
func LowestSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSeries(len(values))
	}
	return maskWarmup(talib.Min(values, period), period-1)
}
