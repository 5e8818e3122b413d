package strategy

import (
	"math"

	"github.com/shopspring/decimal"

	"AlphaScanner/internal/model"
)

var (
	entryLowRatio  = decimal.RequireFromString("0.99")
	entryHighRatio = decimal.RequireFromString("1.01")
	stopATRs       = decimal.NewFromInt(2)
	targetATRs     = decimal.NewFromInt(3)
)

// GeneratePlan derives the entry band, stop and target from the latest close and ATR.
// It returns false when the result is vetoed, below threshold, or the inputs are undefined.
func GeneratePlan(closePx, atr float64, res *model.ScoreResult, threshold int) (*model.TradePlan, bool) {
	if res == nil || res.Vetoed || res.TotalScore < threshold {
		return nil, false
	}
	if !(closePx > 0) || math.IsNaN(atr) || math.IsInf(atr, 0) || atr < 0 {
		return nil, false
	}
	c := decimal.NewFromFloat(closePx)
	a := decimal.NewFromFloat(atr)
	return &model.TradePlan{
		EntryLow:   c.Mul(entryLowRatio).Round(2),
		EntryHigh:  c.Mul(entryHighRatio).Round(2),
		StopLoss:   c.Sub(a.Mul(stopATRs)).Round(2),
		TakeProfit: c.Add(a.Mul(targetATRs)).Round(2),
	}, true
}
