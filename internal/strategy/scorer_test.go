package strategy

import (
	"testing"

	"gopkg.in/yaml.v3"

	"AlphaScanner/internal/model"
)

func strongSetup() *model.IndicatorSnapshot {
	snap := model.NewIndicatorSnapshot(21)
	snap.Set(model.MA20, 20)
	snap.Set(model.MA60, 19)
	snap.Set(model.ADX14, 30)
	snap.Set(model.CMF20, 0.2)
	snap.Set(model.MACDDif, 0.5)
	snap.Set(model.MACDDea, 0.3)
	snap.Set(model.CCI14, 120)
	snap.Set(model.ATR14, 0.5)
	return snap
}

func findFactor(res *model.ScoreResult, label string) (model.Factor, bool) {
	for _, f := range res.Factors {
		if f.Label == label {
			return f, true
		}
	}
	return model.Factor{}, false
}

func sumDeltas(res *model.ScoreResult) int {
	total := 0
	for _, f := range res.Factors {
		total += f.Delta
	}
	return total
}

func TestScore_StrongSetup(t *testing.T) {
	s := NewScorer(DefaultPolicy())
	res := s.Score(Input{Snapshot: strongSetup()})

	if res.Vetoed {
		t.Fatalf("unexpected veto: %s", res.VetoReason)
	}
	if res.TotalScore != 65 {
		t.Errorf("TotalScore = %d, want 65; factors %+v", res.TotalScore, res.Factors)
	}
	if res.TotalScore < s.Policy().PublishThreshold {
		t.Errorf("score %d below threshold", res.TotalScore)
	}
	for _, label := range []string{"多头趋势", "趋势强劲", "主力流入", "CCI突破", "零轴上金叉"} {
		if _, ok := findFactor(res, label); !ok {
			t.Errorf("missing factor %s", label)
		}
	}
	if f, ok := findFactor(res, "估值"); !ok || f.Delta != 0 {
		t.Errorf("missing fundamentals should be recorded as a zero factor, got %+v", f)
	}
	if sumDeltas(res) != res.TotalScore {
		t.Errorf("factor trace sums to %d, total is %d", sumDeltas(res), res.TotalScore)
	}

	plan, ok := GeneratePlan(21, 0.5, res, s.Policy().PublishThreshold)
	if !ok {
		t.Fatal("expected a trade plan")
	}
	if plan.EntryLow.String() != "20.79" || plan.EntryHigh.String() != "21.21" {
		t.Errorf("entry band = %s..%s", plan.EntryLow, plan.EntryHigh)
	}
}

func TestScore_ThreeBlackCrows(t *testing.T) {
	s := NewScorer(DefaultPolicy())
	base := s.Score(Input{Snapshot: strongSetup()})
	crows := model.PatternMatch{Name: "three_black_crows", Label: "三只乌鸦", Polarity: model.Bearish, ScoreDelta: -30}
	res := s.Score(Input{Snapshot: strongSetup(), Matches: []model.PatternMatch{crows}})

	if res.Vetoed {
		t.Fatal("bearish patterns default to a penalty, not a veto")
	}
	if got, want := res.TotalScore, base.TotalScore-30-30; got != want {
		t.Errorf("TotalScore = %d, want %d", got, want)
	}
	if f, ok := findFactor(res, "风险形态"); !ok || f.Delta != -30 {
		t.Errorf("global bearish penalty factor = %+v", f)
	}
	if f, ok := findFactor(res, "三只乌鸦"); !ok || f.Delta != -30 {
		t.Errorf("pattern factor = %+v", f)
	}
	if _, ok := GeneratePlan(21, 0.5, res, s.Policy().PublishThreshold); ok {
		t.Error("score below threshold must not produce a plan")
	}
}

func TestScore_BearishTrendVeto(t *testing.T) {
	snap := strongSetup()
	snap.Set(model.MA20, 18)
	s := NewScorer(DefaultPolicy())
	res := s.Score(Input{Snapshot: snap, Matches: []model.PatternMatch{
		{Name: "island_reversal_bottom", Label: "底部岛形反转", Polarity: model.Bullish, ScoreDelta: 30},
	}})

	if !res.Vetoed || res.TotalScore != 0 {
		t.Fatalf("expected veto with zero score, got %+v", res)
	}
	if res.VetoReason == "" {
		t.Error("veto reason should be recorded")
	}
	if _, ok := GeneratePlan(snap.Close, 0.5, res, 0); ok {
		t.Error("vetoed result must never produce a plan")
	}
	ApplySentiment(res, &model.Sentiment{Score: 20, Summary: "利好"}, 20)
	if res.TotalScore != 0 || len(res.Factors) != 1 {
		t.Errorf("sentiment must not touch a vetoed result: %+v", res)
	}
}

func TestScore_Severities(t *testing.T) {
	crows := []model.PatternMatch{{Name: "three_black_crows", Label: "三只乌鸦", Polarity: model.Bearish, ScoreDelta: -30}}
	bearishTrend := func() *model.IndicatorSnapshot {
		snap := model.NewIndicatorSnapshot(10)
		snap.Set(model.MA20, 10)
		snap.Set(model.MA60, 11)
		return snap
	}

	tests := []struct {
		name      string
		trend     Severity
		pattern   Severity
		matches   []model.PatternMatch
		wantVeto  bool
		wantScore int
	}{
		{"trend off", SeverityOff, SeverityOff, nil, false, 0},
		{"trend penalty", SeverityPenalty, SeverityOff, nil, false, -20},
		{"trend veto", SeverityVeto, SeverityOff, nil, true, 0},
		{"pattern off", SeverityOff, SeverityOff, crows, false, -30},
		{"pattern penalty", SeverityOff, SeverityPenalty, crows, false, -60},
		{"pattern veto", SeverityOff, SeverityVeto, crows, true, 0},
		{"both penalties", SeverityPenalty, SeverityPenalty, crows, false, -80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			p.Severity = Severities{BearishTrend: tt.trend, BearishPattern: tt.pattern}
			res := NewScorer(p).Score(Input{Snapshot: bearishTrend(), Matches: tt.matches})
			if res.Vetoed != tt.wantVeto {
				t.Fatalf("Vetoed = %v, want %v", res.Vetoed, tt.wantVeto)
			}
			if res.TotalScore != tt.wantScore {
				t.Errorf("TotalScore = %d, want %d (%+v)", res.TotalScore, tt.wantScore, res.Factors)
			}
		})
	}
}

func TestScore_Valuation(t *testing.T) {
	tests := []struct {
		name    string
		pe, pb  *float64
		want    int
		skipped bool
	}{
		{"loss", ratio(-5), ratio(3), -10, false},
		{"zero pe is a loss", ratio(0), ratio(3), -10, false},
		{"cheap", ratio(10), ratio(3), 10, false},
		{"cheap boundary", ratio(15), ratio(3), 10, false},
		{"fair", ratio(20), ratio(3), 5, false},
		{"neutral", ratio(45), ratio(3), 0, false},
		{"expensive", ratio(80), ratio(3), -10, false},
		{"cheap with low pb", ratio(10), ratio(1.2), 15, false},
		{"low pb boundary", ratio(45), ratio(1.5), 5, false},
		{"pe not reported", nil, ratio(3), 0, true},
		{"pe not reported with low pb", nil, ratio(1.2), 5, true},
		{"nothing reported", nil, nil, 0, true},
		{"pb not reported", ratio(10), nil, 10, false},
	}
	s := NewScorer(DefaultPolicy())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Score(Input{
				Snapshot:     model.NewIndicatorSnapshot(10),
				Fundamentals: &model.Fundamentals{PERatio: tt.pe, PBRatio: tt.pb},
			})
			if res.TotalScore != tt.want {
				t.Errorf("score %d, want %d (%+v)", res.TotalScore, tt.want, res.Factors)
			}
			if _, ok := findFactor(res, "亏损"); ok && tt.pe == nil {
				t.Errorf("unreported PE scored as a loss: %+v", res.Factors)
			}
			f, ok := findFactor(res, "估值")
			if ok != tt.skipped || (ok && f.Delta != 0) {
				t.Errorf("skip factor = %+v, present %v, want %v", f, ok, tt.skipped)
			}
		})
	}
}

func ratio(v float64) *float64 { return &v }

func TestScore_Overlays(t *testing.T) {
	s := NewScorer(DefaultPolicy())

	t.Run("capitulation with inflow", func(t *testing.T) {
		snap := model.NewIndicatorSnapshot(9)
		snap.Set(model.BBLower, 9.5)
		snap.Set(model.CMF20, 0.05)
		res := s.Score(Input{Snapshot: snap})
		if f, ok := findFactor(res, "错杀吸筹"); !ok || f.Delta != 40 {
			t.Errorf("capitulation factor = %+v", f)
		}
		if res.TotalScore != 45 {
			t.Errorf("TotalScore = %d, want 45", res.TotalScore)
		}
	})

	t.Run("diverging breakout", func(t *testing.T) {
		snap := model.NewIndicatorSnapshot(12)
		snap.Set(model.BBUpper, 11)
		snap.Set(model.CMF20, -0.1)
		res := s.Score(Input{Snapshot: snap})
		if res.TotalScore != -40 {
			t.Errorf("TotalScore = %d, want -40", res.TotalScore)
		}
	})

	t.Run("squeeze breakout", func(t *testing.T) {
		snap := model.NewIndicatorSnapshot(10.2)
		snap.Set(model.MA5, 10)
		snap.Set(model.MA10, 10.05)
		snap.Set(model.MA20, 10.1)
		snap.Set(model.BBWidth, 0.05)
		snap.Set(model.MACDDif, -0.05)
		snap.Set(model.MACDDea, -0.1)
		res := s.Score(Input{Snapshot: snap})
		if f, ok := findFactor(res, "收敛突破"); !ok || f.Delta != 15 {
			t.Errorf("squeeze factor = %+v (%+v)", f, res.Factors)
		}
	})

	t.Run("high turnover stall", func(t *testing.T) {
		snap := model.NewIndicatorSnapshot(10)
		snap.Set(model.Change5, 0.01)
		res := s.Score(Input{Snapshot: snap, Fundamentals: &model.Fundamentals{PERatio: ratio(45), PBRatio: ratio(3), TurnoverPct: 18}})
		if res.TotalScore != -15 {
			t.Errorf("TotalScore = %d, want -15 (%+v)", res.TotalScore, res.Factors)
		}
	})

	t.Run("undefined indicators never fire", func(t *testing.T) {
		res := s.Score(Input{Snapshot: model.NewIndicatorSnapshot(10)})
		if res.TotalScore != 0 || len(res.Factors) != 1 {
			t.Errorf("empty snapshot should only record the valuation skip, got %+v", res.Factors)
		}
	})

	t.Run("nil snapshot", func(t *testing.T) {
		res := s.Score(Input{})
		if res.Vetoed || res.TotalScore != 0 {
			t.Errorf("nil snapshot: %+v", res)
		}
	})
}

func TestApplySentiment(t *testing.T) {
	tests := []struct {
		name string
		in   *model.Sentiment
		want int
	}{
		{"clamped high", &model.Sentiment{Score: 35, Summary: "重大利好"}, 20},
		{"clamped low", &model.Sentiment{Score: -50, Summary: "立案调查"}, -20},
		{"in range", &model.Sentiment{Score: 7.6}, 8},
		{"unavailable", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &model.ScoreResult{TotalScore: 50}
			ApplySentiment(res, tt.in, 20)
			if res.TotalScore != 50+tt.want {
				t.Errorf("TotalScore = %d, want %d", res.TotalScore, 50+tt.want)
			}
			if len(res.Factors) != 1 || res.Factors[0].Label != "舆情" {
				t.Errorf("expected one sentiment factor, got %+v", res.Factors)
			}
		})
	}
}

func TestPolicy_YAMLOverridesKeepDefaults(t *testing.T) {
	p := DefaultPolicy()
	doc := "severity:\n  bearish_trend: penalty\npublish_threshold: 65\n"
	if err := yaml.Unmarshal([]byte(doc), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Severity.BearishTrend != SeverityPenalty || p.Severity.BearishPattern != SeverityPenalty {
		t.Errorf("severity = %+v", p.Severity)
	}
	if p.PublishThreshold != 65 || p.TrendBonus != 20 || p.Overlays.CapitulationBonus != 40 {
		t.Errorf("defaults lost: %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	p.Severity.BearishPattern = "sometimes"
	if err := p.Validate(); err == nil {
		t.Error("unknown severity should fail validation")
	}
}
