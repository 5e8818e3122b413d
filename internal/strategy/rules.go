package strategy

import (
	"fmt"
	"math"

	"AlphaScanner/internal/model"
)

// gateBearishTrend trips when the 20-day average sits below the 60-day average.
func gateBearishTrend(p *Policy, in Input) outcome {
	v, ok := in.Snapshot.GetAll(model.MA20, model.MA60)
	if !ok || v[0] >= v[1] {
		return outcome{}
	}
	return gate(p.Severity.BearishTrend, p.TrendPenalty, "空头趋势",
		fmt.Sprintf("MA20 %.2f < MA60 %.2f", v[0], v[1]))
}

// gateBearishPattern trips once when any bearish pattern fired.
func gateBearishPattern(p *Policy, in Input) outcome {
	var labels []string
	for _, m := range in.Matches {
		if m.Polarity == model.Bearish {
			labels = append(labels, m.Label)
		}
	}
	if len(labels) == 0 {
		return outcome{}
	}
	return gate(p.Severity.BearishPattern, p.BearishPatternPenalty, "风险形态",
		fmt.Sprintf("出现 %d 个看空形态 %v", len(labels), labels))
}

func scoreTrend(p *Policy, in Input) outcome {
	v, ok := in.Snapshot.GetAll(model.MA20, model.MA60)
	if !ok {
		return outcome{}
	}
	closePx := in.Snapshot.Close
	if !(closePx > v[0] && v[0] > v[1]) {
		return outcome{}
	}
	out := single("多头趋势", p.TrendBonus, fmt.Sprintf("收盘 %.2f > MA20 %.2f > MA60 %.2f", closePx, v[0], v[1]))
	if adx, ok := in.Snapshot.Get(model.ADX14); ok && adx > p.StrongTrendADX {
		out.factors = append(out.factors, model.Factor{
			Label: "趋势强劲", Delta: p.StrongTrendBonus, Commentary: fmt.Sprintf("ADX=%.1f", adx),
		})
	}
	return out
}

func scoreMoneyFlow(p *Policy, in Input) outcome {
	cmf, ok := in.Snapshot.Get(model.CMF20)
	if !ok {
		return outcome{}
	}
	switch {
	case cmf > p.StrongInflowCMF:
		return single("主力流入", p.StrongInflowBonus, fmt.Sprintf("CMF=%.3f", cmf))
	case cmf > 0:
		return single("资金流入", p.InflowBonus, fmt.Sprintf("CMF=%.3f", cmf))
	}
	return outcome{}
}

func scoreMomentum(p *Policy, in Input) outcome {
	var out outcome
	if cci, ok := in.Snapshot.Get(model.CCI14); ok && cci > p.CCIBreakout {
		out.factors = append(out.factors, model.Factor{
			Label: "CCI突破", Delta: p.CCIBonus, Commentary: fmt.Sprintf("CCI=%.0f", cci),
		})
	}
	if v, ok := in.Snapshot.GetAll(model.MACDDif, model.MACDDea); ok && v[0] > v[1] && v[0] > 0 && v[1] > 0 {
		out.factors = append(out.factors, model.Factor{
			Label: "零轴上金叉", Delta: p.MACDBonus, Commentary: fmt.Sprintf("DIF %.3f > DEA %.3f", v[0], v[1]),
		})
	}
	return out
}

// scorePatterns records one factor per match, signed by polarity.
func scorePatterns(_ *Policy, in Input) outcome {
	var out outcome
	for _, m := range in.Matches {
		out.factors = append(out.factors, model.Factor{
			Label: m.Label, Delta: m.ScoreDelta, Commentary: "形态 " + m.Name,
		})
	}
	return out
}

func scoreValuation(p *Policy, in Input) outcome {
	f := in.Fundamentals
	if f == nil {
		return single("估值", 0, "基本面不可用，跳过估值")
	}
	v := p.Valuation
	var out outcome
	switch pe := deref(f.PERatio); {
	case f.PERatio == nil:
		out.factors = append(out.factors, model.Factor{Label: "估值", Delta: 0, Commentary: "PE不可用，跳过市盈率"})
	case pe <= 0:
		out.factors = append(out.factors, model.Factor{Label: "亏损", Delta: -v.LossPenalty, Commentary: fmt.Sprintf("PE=%.1f", pe)})
	case pe <= v.CheapPE:
		out.factors = append(out.factors, model.Factor{Label: "低估值", Delta: v.CheapBonus, Commentary: fmt.Sprintf("PE=%.1f", pe)})
	case pe <= v.FairPE:
		out.factors = append(out.factors, model.Factor{Label: "估值合理", Delta: v.FairBonus, Commentary: fmt.Sprintf("PE=%.1f", pe)})
	case pe > v.ExpensivePE:
		out.factors = append(out.factors, model.Factor{Label: "高估值", Delta: -v.ExpensivePen, Commentary: fmt.Sprintf("PE=%.1f", pe)})
	}
	if pb := deref(f.PBRatio); pb > 0 && pb <= v.LowPB {
		out.factors = append(out.factors, model.Factor{Label: "低市净率", Delta: v.LowPBBonus, Commentary: fmt.Sprintf("PB=%.2f", pb)})
	}
	return out
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func scoreOverlays(p *Policy, in Input) outcome {
	o := p.Overlays
	snap := in.Snapshot
	closePx := snap.Close
	var out outcome
	add := func(label string, delta int, commentary string) {
		out.factors = append(out.factors, model.Factor{Label: label, Delta: delta, Commentary: commentary})
	}

	if in.Fundamentals != nil && in.Fundamentals.TurnoverPct > o.HighTurnoverPct {
		if chg, ok := snap.Get(model.Change5); ok && math.Abs(chg) < o.StalledChange {
			add("放量滞涨", -o.StalledPenalty,
				fmt.Sprintf("换手 %.1f%%，5日涨幅 %.1f%%", in.Fundamentals.TurnoverPct, chg*100))
		}
	}

	if v, ok := snap.GetAll(model.MA5, model.MA10, model.MA20, model.BBWidth, model.MACDDif, model.MACDDea); ok && closePx > 0 {
		spread := (max(v[0], v[1], v[2]) - min(v[0], v[1], v[2])) / closePx
		if spread < o.SqueezeMASpread && v[3] < o.SqueezeBandWidth && closePx > v[0] && v[4] > v[5] {
			add("收敛突破", o.SqueezeBonus, fmt.Sprintf("均线粘合 %.2f%%，带宽 %.3f", spread*100, v[3]))
		}
	}

	if cmf, ok := snap.Get(model.CMF20); ok {
		if lower, ok := snap.Get(model.BBLower); ok && closePx < lower && cmf > 0 {
			add("错杀吸筹", o.CapitulationBonus, fmt.Sprintf("跌破下轨 %.2f，CMF=%.3f", lower, cmf))
		}
		if upper, ok := snap.Get(model.BBUpper); ok && closePx > upper && cmf < 0 {
			add("背离突破", -o.DivergencePenalty, fmt.Sprintf("突破上轨 %.2f，CMF=%.3f", upper, cmf))
		}
	}
	return out
}
