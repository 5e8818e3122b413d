package pattern

import "AlphaScanner/internal/model"

// Rule is one declarative catalog entry.
type Rule struct {
	Name     string
	Label    string
	Polarity model.Polarity
	// Window is the number of trailing bars the predicate may read.
	Window int
	Delta  int
	Match  func(w Window, ind *model.IndicatorSnapshot) bool
}

// Detect evaluates the default catalog against the tail of s.
func Detect(s *model.BarSeries, ind *model.IndicatorSnapshot) []model.PatternMatch {
	return DetectWith(Catalog(), s, ind)
}

// DetectWith evaluates rules against the tail of s. Rules whose window is longer
// than the series are skipped. Matches come back in rule order.
func DetectWith(rules []Rule, s *model.BarSeries, ind *model.IndicatorSnapshot) []model.PatternMatch {
	if s == nil || s.Len() == 0 {
		return nil
	}
	longest := 0
	for _, r := range rules {
		longest = max(longest, r.Window)
	}
	tail := s.Tail(longest)

	var matches []model.PatternMatch
	for _, r := range rules {
		if r.Window > len(tail) {
			continue
		}
		w := Window{bars: tail[len(tail)-r.Window:]}
		if !r.Match(w, ind) {
			continue
		}
		matches = append(matches, model.PatternMatch{
			Name:       r.Name,
			Label:      r.Label,
			Polarity:   r.Polarity,
			ScoreDelta: r.Delta,
		})
	}
	return matches
}

// Names splits matches into bullish and bearish labels.
func Names(matches []model.PatternMatch) (bullish, bearish []string) {
	for _, m := range matches {
		if m.Polarity == model.Bearish {
			bearish = append(bearish, m.Label)
		} else {
			bullish = append(bullish, m.Label)
		}
	}
	return bullish, bearish
}
