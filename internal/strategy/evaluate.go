package strategy

import (
	"fmt"
	"math"

	"AlphaScanner/internal/calculator"
	"AlphaScanner/internal/model"
	"AlphaScanner/internal/pattern"
)

// External carries the optional collaborator inputs for one symbol.
type External struct {
	Fundamentals *model.Fundamentals
	Sentiment    *model.Sentiment
}

// Evaluate runs indicators, patterns, scoring, sentiment and the trade plan for one series.
// calculator.ErrInsufficientData is returned wrapped for short series.
func (s *Scorer) Evaluate(series *model.BarSeries, ext External) (*model.Evaluation, error) {
	snap, err := calculator.Compute(series)
	if err != nil {
		return nil, fmt.Errorf("compute indicators for %s: %w", symbolOf(series), err)
	}
	matches := pattern.Detect(series, snap)
	res := s.Score(Input{Snapshot: snap, Matches: matches, Fundamentals: ext.Fundamentals})
	ApplySentiment(res, ext.Sentiment, s.policy.SentimentCap)

	atr, ok := snap.Get(model.ATR14)
	if !ok {
		atr = math.NaN()
	}
	plan, published := GeneratePlan(snap.Close, atr, res, s.policy.PublishThreshold)

	return &model.Evaluation{
		Symbol:    series.Symbol,
		Name:      series.Name,
		Close:     snap.Close,
		Snapshot:  snap,
		Matches:   matches,
		Score:     res,
		Sentiment: ext.Sentiment,
		Plan:      plan,
		Published: published,
	}, nil
}

func symbolOf(s *model.BarSeries) string {
	if s == nil {
		return "<nil>"
	}
	return s.Symbol
}
