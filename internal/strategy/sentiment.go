package strategy

import (
	"fmt"
	"math"

	"AlphaScanner/internal/model"
)

// ApplySentiment adds the news sentiment as a post-hoc factor, clamped to ±limit.
// Vetoed results are left untouched. A nil sentiment is recorded as skipped.
func ApplySentiment(res *model.ScoreResult, s *model.Sentiment, limit float64) {
	if res == nil || res.Vetoed {
		return
	}
	if s == nil {
		res.Add(model.Factor{Label: "舆情", Delta: 0, Commentary: "舆情不可用，跳过"})
		return
	}
	score := s.Score
	if math.IsNaN(score) {
		score = 0
	}
	score = math.Max(-limit, math.Min(limit, score))
	res.Add(model.Factor{
		Label:      "舆情",
		Delta:      int(math.Round(score)),
		Commentary: fmt.Sprintf("%+.0f %s", score, s.Summary),
	})
}
