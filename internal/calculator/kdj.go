package calculator

import "math"

// KDJ holds the stochastic oscillator lines.
type KDJ struct {
	K []float64
	D []float64
	J []float64
}

// KDJSeries computes RSV over an n-bar high/low range and smooths it into K and D
// with weight 1/(1+com). Bars whose n-bar range is flat have no RSV; K carries over.
func KDJSeries(highs, lows, closes []float64, n int, com float64) KDJ {
	hh := HighestSeries(highs, n)
	ll := LowestSeries(lows, n)
	rsv := nanSeries(len(closes))
	for i := range closes {
		if math.IsNaN(hh[i]) || math.IsNaN(ll[i]) || hh[i] == ll[i] {
			continue
		}
		rsv[i] = (closes[i] - ll[i]) / (hh[i] - ll[i]) * 100
	}

	alpha := 1 / (1 + com)
	k := ewm(rsv, alpha)
	d := ewm(k, alpha)
	j := make([]float64, len(k))
	for i := range k {
		j[i] = 3*k[i] - 2*d[i]
	}
	return KDJ{K: k, D: d, J: j}
}
