package calculator

import "math"

// Directional holds the ADX system lines.
type Directional struct {
	PlusDI  []float64
	MinusDI []float64
	ADX     []float64
}

// ADXSeries decomposes price moves into directional movement, normalises the
// period sums by the true-range sum and averages DX over period bars. Any zero
// denominator leaves the dependent value undefined.
func ADXSeries(highs, lows, closes []float64, period int) Directional {
	n := len(closes)
	tr := TrueRangeSeries(highs, lows, closes)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	trSum := rollingSum(tr, period)
	plusSum := rollingSum(plusDM, period)
	minusSum := rollingSum(minusDM, period)

	plusDI := nanSeries(n)
	minusDI := nanSeries(n)
	dx := nanSeries(n)
	for i := 0; i < n; i++ {
		if math.IsNaN(trSum[i]) || trSum[i] == 0 {
			continue
		}
		plusDI[i] = 100 * plusSum[i] / trSum[i]
		minusDI[i] = 100 * minusSum[i] / trSum[i]
		if s := plusDI[i] + minusDI[i]; s > 0 {
			dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / s
		}
	}
	return Directional{PlusDI: plusDI, MinusDI: minusDI, ADX: rollingMean(dx, period)}
}
