package calculator

import "errors"

// CalculateRSI computes RSI from the simple mean gain and mean loss of the last
// period close-to-close changes. Requires period+1 closes. Returns 100 when there
// were no losses.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 0, ErrInsufficientData
	}

	var gain, loss float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	gain /= float64(period)
	loss /= float64(period)

	if loss == 0 {
		return 100.0, nil
	}
	rsi := 100.0 - 100.0/(1.0+gain/loss)
	return min(max(rsi, 0), 100), nil
}
