package pattern

import (
	"math"

	"AlphaScanner/internal/model"
)

// Catalog returns the rule table. Every call returns a fresh slice.
func Catalog() []Rule {
	return []Rule{
		// bottom reversal
		{Name: "morning_star", Label: "早晨之星", Polarity: model.Bullish, Window: 12, Delta: 20, Match: morningStar},
		{Name: "hammer", Label: "锤子线", Polarity: model.Bullish, Window: 5, Delta: 15, Match: hammer},
		{Name: "inverted_hammer", Label: "倒锤头", Polarity: model.Bullish, Window: 5, Delta: 10, Match: invertedHammer},
		{Name: "bullish_engulfing", Label: "阳包阴", Polarity: model.Bullish, Window: 2, Delta: 20, Match: bullishEngulfing},
		{Name: "piercing_line", Label: "曙光初现", Polarity: model.Bullish, Window: 11, Delta: 15, Match: piercingLine},
		{Name: "tweezer_bottom", Label: "镊子底", Polarity: model.Bullish, Window: 10, Delta: 10, Match: tweezerBottom},
		{Name: "three_white_soldiers", Label: "红三兵", Polarity: model.Bullish, Window: 3, Delta: 15, Match: threeWhiteSoldiers},
		{Name: "bullish_harami", Label: "孕阳线", Polarity: model.Bullish, Window: 11, Delta: 10, Match: bullishHarami},
		{Name: "dragonfly_doji", Label: "蜻蜓十字", Polarity: model.Bullish, Window: 20, Delta: 10, Match: dragonflyDoji},
		{Name: "island_reversal_bottom", Label: "底部岛形反转", Polarity: model.Bullish, Window: 10, Delta: 30, Match: islandReversalBottom},

		// continuation and breakout
		{Name: "rising_three_methods", Label: "上升三法", Polarity: model.Bullish, Window: 14, Delta: 25, Match: risingThreeMethods},
		{Name: "bullish_cannon", Label: "多方炮", Polarity: model.Bullish, Window: 3, Delta: 20, Match: bullishCannon},
		{Name: "gap_up", Label: "跳空缺口", Polarity: model.Bullish, Window: 2, Delta: 15, Match: gapUp},
		{Name: "triple_ma_breakout", Label: "一阳穿三线", Polarity: model.Bullish, Window: 1, Delta: 25, Match: tripleMABreakout},
		{Name: "double_volume_high", Label: "倍量过左峰", Polarity: model.Bullish, Window: 20, Delta: 20, Match: doubleVolumeHigh},
		{Name: "golden_spider", Label: "金蜘蛛", Polarity: model.Bullish, Window: 1, Delta: 15, Match: goldenSpider},
		{Name: "ma_bullish_alignment", Label: "均线多头排列", Polarity: model.Bullish, Window: 1, Delta: 10, Match: maBullishAlignment},
		{Name: "macd_golden_cross", Label: "MACD金叉", Polarity: model.Bullish, Window: 1, Delta: 10, Match: macdGoldenCross},
		{Name: "kdj_golden_cross", Label: "KDJ金叉", Polarity: model.Bullish, Window: 1, Delta: 10, Match: kdjGoldenCross},
		{Name: "volume_expansion", Label: "放量", Polarity: model.Bullish, Window: 1, Delta: 5, Match: volumeExpansion},

		// top reversal and exhaustion
		{Name: "evening_star", Label: "黄昏之星", Polarity: model.Bearish, Window: 12, Delta: -30, Match: eveningStar},
		{Name: "dark_cloud_cover", Label: "乌云盖顶", Polarity: model.Bearish, Window: 2, Delta: -25, Match: darkCloudCover},
		{Name: "bearish_engulfing", Label: "阴包阳", Polarity: model.Bearish, Window: 2, Delta: -25, Match: bearishEngulfing},
		{Name: "three_black_crows", Label: "三只乌鸦", Polarity: model.Bearish, Window: 3, Delta: -30, Match: threeBlackCrows},
		{Name: "shooting_star", Label: "射击之星", Polarity: model.Bearish, Window: 20, Delta: -20, Match: shootingStar},
		{Name: "hanging_man", Label: "吊颈线", Polarity: model.Bearish, Window: 20, Delta: -20, Match: hangingMan},
		{Name: "guillotine", Label: "断头铡刀", Polarity: model.Bearish, Window: 1, Delta: -40, Match: guillotine},
		{Name: "island_reversal_top", Label: "顶部岛形反转", Polarity: model.Bearish, Window: 10, Delta: -50, Match: islandReversalTop},
		{Name: "gravestone_doji", Label: "墓碑十字", Polarity: model.Bearish, Window: 20, Delta: -30, Match: gravestoneDoji},
		{Name: "gap_down", Label: "向下跳空", Polarity: model.Bearish, Window: 2, Delta: -15, Match: gapDown},
		{Name: "bearish_harami", Label: "孕阴线", Polarity: model.Bearish, Window: 11, Delta: -10, Match: bearishHarami},
		{Name: "macd_dead_cross", Label: "MACD死叉", Polarity: model.Bearish, Window: 1, Delta: -10, Match: macdDeadCross},
	}
}

// Run-up / run-down thresholds relative to the close at the start of the window.
const (
	highPositionRatio = 1.15
	exhaustionRunUp   = 1.20
	exhaustionRunDown = 0.80
	dojiBodyRatio     = 0.005
	negligibleShadow  = 0.002
	maxIslandBars     = 8
)

func midBody(b model.Bar) float64 { return (b.Open + b.Close) / 2 }

func morningStar(w Window, _ *model.IndicatorSnapshot) bool {
	a, b, c := w.At(-3), w.At(-2), w.At(-1)
	return a.Bearish() && a.Body() > w.AvgBody(-3, 10) &&
		b.High < a.Low &&
		c.Bullish() && c.Close > midBody(a)
}

func eveningStar(w Window, _ *model.IndicatorSnapshot) bool {
	a, b, c := w.At(-3), w.At(-2), w.At(-1)
	return a.Bullish() && a.Body() > w.AvgBody(-3, 10) &&
		b.Low > a.High &&
		c.Bearish() && c.Close < midBody(a)
}

func hammer(w Window, _ *model.IndicatorSnapshot) bool {
	c := w.At(-1)
	return c.Low <= w.MinLow(5) &&
		c.LowerShadow() > 0 &&
		c.LowerShadow() >= 2*c.Body() &&
		c.UpperShadow() <= 0.1*c.Body()
}

func invertedHammer(w Window, _ *model.IndicatorSnapshot) bool {
	c := w.At(-1)
	return c.Low <= w.MinLow(5) &&
		c.UpperShadow() > 0 &&
		c.UpperShadow() >= 2*c.Body() &&
		c.LowerShadow() <= 0.1*c.Body()
}

func bullishEngulfing(w Window, _ *model.IndicatorSnapshot) bool {
	p, c := w.At(-2), w.At(-1)
	return p.Bearish() && c.Bullish() && c.Open < p.Close && c.Close > p.Open
}

func bearishEngulfing(w Window, _ *model.IndicatorSnapshot) bool {
	p, c := w.At(-2), w.At(-1)
	return p.Bullish() && c.Bearish() && c.Open > p.Close && c.Close < p.Open
}

func piercingLine(w Window, _ *model.IndicatorSnapshot) bool {
	p, c := w.At(-2), w.At(-1)
	return p.Bearish() && p.Body() > w.AvgBody(-2, 10) &&
		c.Open < p.Low &&
		c.Close > midBody(p) && c.Close < p.Open
}

func darkCloudCover(w Window, _ *model.IndicatorSnapshot) bool {
	p, c := w.At(-2), w.At(-1)
	return p.Bullish() && c.Bearish() && c.Open > p.High && c.Close < midBody(p)
}

func tweezerBottom(w Window, _ *model.IndicatorSnapshot) bool {
	p, c := w.At(-2), w.At(-1)
	return math.Abs(c.Low-p.Low) < c.Close*0.002 && c.Low <= w.MinLow(10)
}

func threeWhiteSoldiers(w Window, _ *model.IndicatorSnapshot) bool {
	a, b, c := w.At(-3), w.At(-2), w.At(-1)
	return a.Bullish() && b.Bullish() && c.Bullish() && c.Close > b.Close && b.Close > a.Close
}

func threeBlackCrows(w Window, _ *model.IndicatorSnapshot) bool {
	a, b, c := w.At(-3), w.At(-2), w.At(-1)
	return a.Bearish() && b.Bearish() && c.Bearish() && c.Close < b.Close && b.Close < a.Close
}

func bullishHarami(w Window, _ *model.IndicatorSnapshot) bool {
	p, c := w.At(-2), w.At(-1)
	return p.Bearish() && p.Body() > w.AvgBody(-2, 10) &&
		c.Bullish() && c.Open >= p.Close && c.Close <= p.Open && c.Body() < p.Body()
}

func bearishHarami(w Window, _ *model.IndicatorSnapshot) bool {
	p, c := w.At(-2), w.At(-1)
	return p.Bullish() && p.Body() > w.AvgBody(-2, 10) &&
		c.Bearish() && c.Open <= p.Close && c.Close >= p.Open && c.Body() < p.Body()
}

func risingThreeMethods(w Window, _ *model.IndicatorSnapshot) bool {
	first, c := w.At(-5), w.At(-1)
	if !first.Bullish() || first.Body() <= w.AvgBody(-5, 10) {
		return false
	}
	for i := -4; i <= -2; i++ {
		if !w.At(i).Bearish() {
			return false
		}
	}
	return w.At(-4).Low > first.Low && w.At(-2).Low > first.Low &&
		c.Bullish() && c.Close > first.Close
}

func bullishCannon(w Window, _ *model.IndicatorSnapshot) bool {
	a, b, c := w.At(-3), w.At(-2), w.At(-1)
	return a.Bullish() && b.Bearish() && c.Bullish() && c.Close > a.Close
}

func gapUp(w Window, _ *model.IndicatorSnapshot) bool {
	return w.At(-1).Low > w.At(-2).High
}

func gapDown(w Window, _ *model.IndicatorSnapshot) bool {
	return w.At(-1).High < w.At(-2).Low
}

func doubleVolumeHigh(w Window, _ *model.IndicatorSnapshot) bool {
	p, c := w.At(-2), w.At(-1)
	return float64(c.Volume) > float64(p.Volume)*1.9 && c.Close >= w.MaxClose(20)
}

func shootingStar(w Window, _ *model.IndicatorSnapshot) bool {
	c := w.At(-1)
	return c.UpperShadow() > 2*c.Body() && c.LowerShadow() < 0.1*c.Body() &&
		c.Close > w.At(-20).Close*highPositionRatio
}

func hangingMan(w Window, _ *model.IndicatorSnapshot) bool {
	c := w.At(-1)
	return c.LowerShadow() > 2*c.Body() && c.UpperShadow() < 0.1*c.Body() &&
		c.Close > w.At(-20).Close*highPositionRatio
}

func gravestoneDoji(w Window, _ *model.IndicatorSnapshot) bool {
	c := w.At(-1)
	return c.Body() < c.Close*dojiBodyRatio &&
		c.UpperShadow() > 3*c.Body() &&
		c.LowerShadow() <= c.Close*negligibleShadow &&
		c.Close >= w.At(-20).Close*exhaustionRunUp
}

func dragonflyDoji(w Window, _ *model.IndicatorSnapshot) bool {
	c := w.At(-1)
	return c.Body() < c.Close*dojiBodyRatio &&
		c.LowerShadow() > 3*c.Body() &&
		c.UpperShadow() <= c.Close*negligibleShadow &&
		c.Close <= w.At(-20).Close*exhaustionRunDown
}

// islandReversalTop looks for an up-gap into an island of 1..maxIslandBars bars
// that the latest bar leaves with a down-gap.
func islandReversalTop(w Window, _ *model.IndicatorSnapshot) bool {
	c := w.At(-1)
	for k := 1; k <= maxIslandBars && k+2 <= w.Len(); k++ {
		islandLow := math.Inf(1)
		for i := -1 - k; i <= -2; i++ {
			islandLow = min(islandLow, w.At(i).Low)
		}
		if w.At(-2-k).High < islandLow && c.High < islandLow {
			return true
		}
	}
	return false
}

func islandReversalBottom(w Window, _ *model.IndicatorSnapshot) bool {
	c := w.At(-1)
	for k := 1; k <= maxIslandBars && k+2 <= w.Len(); k++ {
		islandHigh := math.Inf(-1)
		for i := -1 - k; i <= -2; i++ {
			islandHigh = max(islandHigh, w.At(i).High)
		}
		if w.At(-2-k).Low > islandHigh && c.Low > islandHigh {
			return true
		}
	}
	return false
}

func shortMAs(ind *model.IndicatorSnapshot) (lo, hi, ma5 float64, ok bool) {
	v, ok := ind.GetAll(model.MA5, model.MA10, model.MA20)
	if !ok {
		return 0, 0, 0, false
	}
	return min(v[0], v[1], v[2]), max(v[0], v[1], v[2]), v[0], true
}

func tripleMABreakout(w Window, ind *model.IndicatorSnapshot) bool {
	lo, hi, _, ok := shortMAs(ind)
	c := w.At(-1)
	return ok && c.Close > hi && c.Open < lo
}

func guillotine(w Window, ind *model.IndicatorSnapshot) bool {
	lo, hi, _, ok := shortMAs(ind)
	c := w.At(-1)
	return ok && c.Close < lo && c.Open > hi
}

func goldenSpider(w Window, ind *model.IndicatorSnapshot) bool {
	lo, hi, ma5, ok := shortMAs(ind)
	c := w.At(-1)
	return ok && (hi-lo)/c.Close < 0.015 && c.Close > ma5
}

func maBullishAlignment(_ Window, ind *model.IndicatorSnapshot) bool {
	v, ok := ind.GetAll(model.MA5, model.MA10, model.MA20, model.MA60)
	return ok && v[0] > v[1] && v[1] > v[2] && v[2] > v[3]
}

func macdGoldenCross(_ Window, ind *model.IndicatorSnapshot) bool {
	v, ok := ind.GetAll(model.MACDDifPrev, model.MACDDeaPrev, model.MACDDif, model.MACDDea)
	return ok && v[0] < v[1] && v[2] > v[3]
}

func macdDeadCross(_ Window, ind *model.IndicatorSnapshot) bool {
	v, ok := ind.GetAll(model.MACDDifPrev, model.MACDDeaPrev, model.MACDDif, model.MACDDea)
	return ok && v[0] > v[1] && v[2] < v[3]
}

func kdjGoldenCross(_ Window, ind *model.IndicatorSnapshot) bool {
	v, ok := ind.GetAll(model.KDJKPrev, model.KDJDPrev, model.KDJK, model.KDJD)
	return ok && v[0] < v[1] && v[2] > v[3]
}

func volumeExpansion(w Window, ind *model.IndicatorSnapshot) bool {
	ma, ok := ind.Get(model.VolumeMA5)
	return ok && ma > 0 && float64(w.At(-1).Volume) > 1.5*ma
}
