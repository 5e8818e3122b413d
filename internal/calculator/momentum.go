package calculator

import "math"

// MACD holds the dif/dea/histogram lines.
type MACD struct {
	Dif  []float64
	Dea  []float64
	Hist []float64
}

// MACDSeries computes EMA(fast)-EMA(slow) of closes and its EMA(signal).
func MACDSeries(closes []float64, fast, slow, signal int) MACD {
	fastEMA := EMASeries(closes, fast)
	slowEMA := EMASeries(closes, slow)
	dif := make([]float64, len(closes))
	for i := range closes {
		dif[i] = fastEMA[i] - slowEMA[i]
	}
	dea := EMASeries(dif, signal)
	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = dif[i] - dea[i]
	}
	return MACD{Dif: dif, Dea: dea, Hist: hist}
}

// CCISeries computes (TP - mean TP) / (0.015 * mean absolute deviation of TP)
// where TP = (high+low+close)/3. A zero deviation leaves the value undefined.
func CCISeries(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	tp := make([]float64, n)
	for i := range closes {
		tp[i] = (highs[i] + lows[i] + closes[i]) / 3
	}
	out := nanSeries(n)
	for i := period - 1; i < n; i++ {
		mean := 0.0
		for j := i - period + 1; j <= i; j++ {
			mean += tp[j]
		}
		mean /= float64(period)
		mad := 0.0
		for j := i - period + 1; j <= i; j++ {
			mad += math.Abs(tp[j] - mean)
		}
		mad /= float64(period)
		if mad == 0 {
			continue
		}
		out[i] = (tp[i] - mean) / (0.015 * mad)
	}
	return out
}
