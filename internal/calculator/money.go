package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// CMFRangeFloor replaces a zero high-low range in the money-flow multiplier.
const CMFRangeFloor = 0.01

// MoneyFlowMultiplier is ((close-low)-(high-close))/(high-low) with the range floored.
func MoneyFlowMultiplier(high, low, close float64) float64 {
	rng := high - low
	if rng <= 0 {
		rng = CMFRangeFloor
	}
	return ((close - low) - (high - close)) / rng
}

// CMFSeries is the Chaikin money flow over period bars. Windows without volume are undefined.
func CMFSeries(highs, lows, closes, volumes []float64, period int) []float64 {
	n := len(closes)
	mfv := make([]float64, n)
	for i := range closes {
		mfv[i] = MoneyFlowMultiplier(highs[i], lows[i], closes[i]) * volumes[i]
	}
	mfvSum := rollingSum(mfv, period)
	volSum := rollingSum(volumes, period)
	out := nanSeries(n)
	for i := range out {
		if math.IsNaN(volSum[i]) || volSum[i] == 0 {
			continue
		}
		out[i] = mfvSum[i] / volSum[i]
	}
	return out
}

// OBVSeries is the cumulative volume signed by the close-to-close direction.
func OBVSeries(closes, volumes []float64) []float64 {
	if len(closes) == 0 {
		return nil
	}
	return talib.Obv(closes, volumes)
}

// VolumeRatioSeries is volume divided by its period mean (including the current bar).
func VolumeRatioSeries(volumes []float64, period int) (ratio, mean []float64) {
	mean = SMASeries(volumes, period)
	ratio = nanSeries(len(volumes))
	for i := range volumes {
		if math.IsNaN(mean[i]) || mean[i] <= 0 {
			continue
		}
		ratio[i] = volumes[i] / mean[i]
	}
	return ratio, mean
}
