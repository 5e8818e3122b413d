package calculator

import (
	"errors"
	"fmt"
	"math"

	"AlphaScanner/internal/model"
)

// MinBars is the longest lookback the engine needs.
const MinBars = 60

// ErrInsufficientData is returned when a series is shorter than a computation needs.
var ErrInsufficientData = errors.New("insufficient data")

// Compute derives the full indicator snapshot from a series. Series shorter than
// MinBars yield ErrInsufficientData and no snapshot.
func Compute(s *model.BarSeries) (*model.IndicatorSnapshot, error) {
	if s == nil || s.Len() < MinBars {
		n := 0
		if s != nil {
			n = s.Len()
		}
		return nil, fmt.Errorf("%w: have %d bars, need %d", ErrInsufficientData, n, MinBars)
	}

	closes := s.Closes()
	highs := s.Highs()
	lows := s.Lows()
	volumes := s.Volumes()

	snap := model.NewIndicatorSnapshot(s.Last().Close)

	for _, ma := range []struct {
		name   model.Indicator
		period int
	}{{model.MA5, 5}, {model.MA10, 10}, {model.MA20, 20}, {model.MA60, 60}} {
		if v, err := CalculateSMA(closes, ma.period); err == nil {
			snap.Set(ma.name, v)
		}
	}

	macd := MACDSeries(closes, 12, 26, 9)
	snap.Set(model.MACDDif, last(macd.Dif))
	snap.Set(model.MACDDea, last(macd.Dea))
	snap.Set(model.MACDHist, last(macd.Hist))
	snap.Set(model.MACDDifPrev, penultimate(macd.Dif))
	snap.Set(model.MACDDeaPrev, penultimate(macd.Dea))

	kdj := KDJSeries(highs, lows, closes, 9, 2)
	snap.Set(model.KDJK, last(kdj.K))
	snap.Set(model.KDJD, last(kdj.D))
	snap.Set(model.KDJJ, last(kdj.J))
	snap.Set(model.KDJKPrev, penultimate(kdj.K))
	snap.Set(model.KDJDPrev, penultimate(kdj.D))

	if rsi, err := CalculateRSI(closes, 14); err == nil {
		snap.Set(model.RSI14, rsi)
	}

	snap.Set(model.ATR14, last(ATRSeries(highs, lows, closes, 14)))

	dir := ADXSeries(highs, lows, closes, 14)
	snap.Set(model.ADX14, last(dir.ADX))
	snap.Set(model.PlusDI, last(dir.PlusDI))
	snap.Set(model.MinusDI, last(dir.MinusDI))

	snap.Set(model.CCI14, last(CCISeries(highs, lows, closes, 14)))
	snap.Set(model.CMF20, last(CMFSeries(highs, lows, closes, volumes, 20)))

	bands := BollingerSeries(closes, 20, 2)
	snap.Set(model.BBUpper, last(bands.Upper))
	snap.Set(model.BBMiddle, last(bands.Middle))
	snap.Set(model.BBLower, last(bands.Lower))
	snap.Set(model.BBWidth, last(bands.Width))

	obv := OBVSeries(closes, volumes)
	snap.Set(model.OBV, last(obv))
	snap.Set(model.OBVMA10, last(SMASeries(obv, 10)))

	ratio, volMA := VolumeRatioSeries(volumes, 5)
	snap.Set(model.VolumeMA5, last(volMA))
	snap.Set(model.VolumeRatio, last(ratio))

	n := len(closes)
	snap.Set(model.Change5, changeOver(closes[n-6], closes[n-1]))

	return snap, nil
}

func changeOver(from, to float64) float64 {
	if from <= 0 {
		return math.NaN()
	}
	return to/from - 1
}
