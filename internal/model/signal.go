package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Polarity is the direction a pattern points to.
type Polarity string

const (
	Bullish Polarity = "bullish"
	Bearish Polarity = "bearish"
)

// PatternMatch is one fired candlestick rule.
type PatternMatch struct {
	Name       string
	Label      string
	Polarity   Polarity
	ScoreDelta int
}

// Factor is one line of the scoring audit trace.
type Factor struct {
	Label      string
	Delta      int
	Commentary string
}

// ScoreResult is the output of the composite scorer.
type ScoreResult struct {
	TotalScore int
	Vetoed     bool
	VetoReason string
	Factors    []Factor
}

// Add appends a factor and accumulates its delta.
func (r *ScoreResult) Add(f Factor) {
	r.Factors = append(r.Factors, f)
	r.TotalScore += f.Delta
}

// TradePlan is the actionable price plan for a published symbol.
type TradePlan struct {
	EntryLow   decimal.Decimal
	EntryHigh  decimal.Decimal
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal
}

// Evaluation is everything the per-symbol pipeline derived.
type Evaluation struct {
	Symbol    string
	Name      string
	Close     float64
	Snapshot  *IndicatorSnapshot
	Matches   []PatternMatch
	Score     *ScoreResult
	Sentiment *Sentiment
	Plan      *TradePlan
	Published bool
}

// ScanResult is the record handed to reporting for a published symbol.
type ScanResult struct {
	Symbol          string
	Name            string
	TotalScore      int
	Close           float64
	Plan            TradePlan
	BullishPatterns []string
	BearishPatterns []string
	// Indicator readings are nil when the value was undefined for the series.
	CMF             *float64
	CCI             *float64
	ADX             *float64
	RSI             *float64
	ATR             *float64
	Factors         []Factor
	SentimentNote   string
	SeenBefore      bool
	LastSeenAt      time.Time
	EvaluatedAt     time.Time
}

// ScanReport summarises one scan run.
type ScanReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Scanned    int
	Evaluated  int
	Published  []ScanResult
	Skipped    map[string]int
}
