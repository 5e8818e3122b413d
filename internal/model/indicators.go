package model

import (
	"math"
	"sort"
)

// Indicator names an entry of an IndicatorSnapshot.
type Indicator string

const (
	MA5  Indicator = "ma5"
	MA10 Indicator = "ma10"
	MA20 Indicator = "ma20"
	MA60 Indicator = "ma60"

	MACDDif     Indicator = "macd_dif"
	MACDDea     Indicator = "macd_dea"
	MACDHist    Indicator = "macd_hist"
	MACDDifPrev Indicator = "macd_dif_prev"
	MACDDeaPrev Indicator = "macd_dea_prev"

	KDJK     Indicator = "kdj_k"
	KDJD     Indicator = "kdj_d"
	KDJJ     Indicator = "kdj_j"
	KDJKPrev Indicator = "kdj_k_prev"
	KDJDPrev Indicator = "kdj_d_prev"

	RSI14   Indicator = "rsi14"
	ATR14   Indicator = "atr14"
	ADX14   Indicator = "adx14"
	PlusDI  Indicator = "plus_di"
	MinusDI Indicator = "minus_di"
	CCI14   Indicator = "cci14"
	CMF20   Indicator = "cmf20"

	BBUpper  Indicator = "bb_upper"
	BBMiddle Indicator = "bb_middle"
	BBLower  Indicator = "bb_lower"
	BBWidth  Indicator = "bb_width"

	OBV         Indicator = "obv"
	OBVMA10     Indicator = "obv_ma10"
	VolumeMA5   Indicator = "volume_ma5"
	VolumeRatio Indicator = "volume_ratio"
	Change5     Indicator = "change5"
)

// IndicatorSnapshot holds the latest value of every indicator derived from one series.
// A missing key means the indicator is undefined; non-finite values are never stored.
type IndicatorSnapshot struct {
	Close  float64
	values map[Indicator]float64
}

// NewIndicatorSnapshot returns an empty snapshot for the given latest close.
func NewIndicatorSnapshot(close float64) *IndicatorSnapshot {
	return &IndicatorSnapshot{Close: close, values: make(map[Indicator]float64)}
}

// Set stores v under name. NaN and infinities mark the indicator undefined instead.
func (s *IndicatorSnapshot) Set(name Indicator, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		delete(s.values, name)
		return
	}
	s.values[name] = v
}

// Get returns the value and whether it is defined.
func (s *IndicatorSnapshot) Get(name Indicator) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.values[name]
	return v, ok
}

// GetAll returns the values of all names, ok only if every one is defined.
func (s *IndicatorSnapshot) GetAll(names ...Indicator) ([]float64, bool) {
	out := make([]float64, len(names))
	for i, n := range names {
		v, ok := s.Get(n)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// Names lists the defined indicators in sorted order.
func (s *IndicatorSnapshot) Names() []Indicator {
	out := make([]Indicator, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
