package strategy

import (
	"AlphaScanner/internal/model"
)

// Input is everything the scorer reads for one symbol.
type Input struct {
	Snapshot     *model.IndicatorSnapshot
	Matches      []model.PatternMatch
	Fundamentals *model.Fundamentals
}

// outcome is what a single scoring rule contributes.
type outcome struct {
	factors []model.Factor
	veto    *model.Factor
}

type scoreRule func(p *Policy, in Input) outcome

// Scorer applies the ordered rule list under one Policy.
type Scorer struct {
	policy Policy
	rules  []scoreRule
}

// NewScorer builds a scorer. Rules run in a fixed order: gates first, then the
// additive trend, money flow, momentum, pattern, valuation and overlay rules.
func NewScorer(p Policy) *Scorer {
	return &Scorer{
		policy: p,
		rules: []scoreRule{
			gateBearishTrend,
			gateBearishPattern,
			scoreTrend,
			scoreMoneyFlow,
			scoreMomentum,
			scorePatterns,
			scoreValuation,
			scoreOverlays,
		},
	}
}

// Policy returns the scorer's configuration.
func (s *Scorer) Policy() Policy { return s.policy }

// Score runs every rule in order. A veto stops the pipeline with TotalScore 0.
func (s *Scorer) Score(in Input) *model.ScoreResult {
	if in.Snapshot == nil {
		in.Snapshot = model.NewIndicatorSnapshot(0)
	}
	res := &model.ScoreResult{}
	for _, rule := range s.rules {
		out := rule(&s.policy, in)
		if out.veto != nil {
			res.Factors = append(res.Factors, *out.veto)
			res.TotalScore = 0
			res.Vetoed = true
			res.VetoReason = out.veto.Commentary
			return res
		}
		for _, f := range out.factors {
			res.Add(f)
		}
	}
	return res
}

func single(label string, delta int, commentary string) outcome {
	return outcome{factors: []model.Factor{{Label: label, Delta: delta, Commentary: commentary}}}
}

// gate applies a severity to a tripped gate rule.
func gate(sev Severity, penalty int, label, commentary string) outcome {
	switch sev {
	case SeverityVeto:
		return outcome{veto: &model.Factor{Label: label, Delta: 0, Commentary: commentary}}
	case SeverityPenalty:
		return single(label, -penalty, commentary)
	}
	return outcome{}
}
