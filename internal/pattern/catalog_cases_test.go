package pattern

import (
	"testing"

	"AlphaScanner/internal/model"
)

func vol(b model.Bar, v int64) model.Bar {
	b.Volume = v
	return b
}

func bars(parts ...[]model.Bar) []model.Bar {
	var out []model.Bar
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func one(b ...model.Bar) []model.Bar { return b }

type candleCase struct {
	name string
	rule string
	bars []model.Bar
	want bool
}

func runCandleCases(t *testing.T, tests []candleCase) {
	t.Helper()
	rules := map[string]Rule{}
	for _, r := range Catalog() {
		rules[r.Name] = r
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := rules[tt.rule]
			if !ok {
				t.Fatalf("unknown rule %s", tt.rule)
			}
			m, ok := findMatch(Detect(series(t, tt.bars...), nil), tt.rule)
			if ok != tt.want {
				t.Fatalf("%s matched=%v, want %v", tt.rule, ok, tt.want)
			}
			if ok && m.ScoreDelta != r.Delta {
				t.Errorf("%s delta=%d, want %d", tt.rule, m.ScoreDelta, r.Delta)
			}
		})
	}
}

func TestCatalog_BottomReversals(t *testing.T) {
	filler := bar(10, 10.2, 9.9, 10.1)
	calm := bar(12, 12.25, 11.75, 12.125)
	longBear := bar(11, 11.1, 9.9, 10)

	runCandleCases(t, []candleCase{
		{"hammer with lower shadow exactly twice the body", "hammer",
			bars(repeat(4, filler), one(bar(10, 10.5, 9, 10.5))), true},
		{"hammer with short lower shadow", "hammer",
			bars(repeat(4, filler), one(bar(10, 10.5, 9.25, 10.5))), false},

		{"inverted hammer with upper shadow exactly twice the body", "inverted_hammer",
			bars(repeat(4, calm), one(bar(10, 11.5, 10, 10.5))), true},
		{"inverted hammer with short upper shadow", "inverted_hammer",
			bars(repeat(4, calm), one(bar(10, 11.25, 10, 10.5))), false},
		{"inverted hammer with a lower tail", "inverted_hammer",
			bars(repeat(4, filler), one(bar(9.5, 10.2, 9.48, 9.6))), false},

		{"piercing line", "piercing_line",
			bars(repeat(9, filler), one(longBear, bar(9.8, 10.8, 9.7, 10.6))), true},
		{"piercing line closing on the midpoint", "piercing_line",
			bars(repeat(9, filler), one(longBear, bar(9.8, 10.6, 9.7, 10.5))), false},

		{"tweezer bottom", "tweezer_bottom",
			bars(repeat(8, filler), one(bar(9.6, 9.7, 9.0, 9.2), bar(9.2, 9.6, 8.99, 9.5))), true},
		{"tweezer lows too far apart", "tweezer_bottom",
			bars(repeat(8, filler), one(bar(9.6, 9.7, 9.0, 9.2), bar(9.2, 9.6, 8.97, 9.5))), false},

		{"bullish harami opening on the prior close", "bullish_harami",
			bars(repeat(9, filler), one(longBear, bar(10, 10.6, 9.95, 10.5))), true},
		{"bullish harami opening below the prior body", "bullish_harami",
			bars(repeat(9, filler), one(longBear, bar(9.875, 10.6, 9.8, 10.5))), false},

		{"dragonfly doji at exactly a 20% run-down", "dragonfly_doji",
			bars(one(bar(10.1, 10.2, 9.9, 10)), repeat(18, filler), one(bar(8, 8.01, 7.5, 8))), true},
		{"dragonfly doji without the run-down", "dragonfly_doji",
			bars(one(bar(10.1, 10.2, 9.9, 10)), repeat(18, filler), one(bar(8.125, 8.13, 7.5, 8.125))), false},
	})
}

func TestCatalog_Continuations(t *testing.T) {
	filler := bar(10, 10.2, 9.9, 10.1)
	first := bar(10, 11.1, 9.9, 11)
	pullback := one(
		bar(10.9, 10.95, 10.5, 10.6),
		bar(10.7, 10.75, 10.3, 10.4),
		bar(10.5, 10.55, 10.2, 10.3),
	)

	runCandleCases(t, []candleCase{
		{"rising three methods", "rising_three_methods",
			bars(repeat(9, filler), one(first), pullback, one(bar(10.4, 11.3, 10.35, 11.2))), true},
		{"rising three methods closing level with the first bar", "rising_three_methods",
			bars(repeat(9, filler), one(first), pullback, one(bar(10.4, 11.1, 10.35, 11))), false},
		{"rising three methods with a bullish middle bar", "rising_three_methods",
			bars(repeat(9, filler), one(first, pullback[0], bar(10.4, 10.75, 10.3, 10.7), pullback[2]),
				one(bar(10.4, 11.3, 10.35, 11.2))), false},

		{"bullish cannon", "bullish_cannon",
			one(bar(10, 10.6, 9.9, 10.5), bar(10.5, 10.55, 10.1, 10.2), bar(10.2, 10.8, 10.15, 10.75)), true},
		{"bullish cannon closing level with the first bar", "bullish_cannon",
			one(bar(10, 10.6, 9.9, 10.5), bar(10.5, 10.55, 10.1, 10.2), bar(10.2, 10.6, 10.15, 10.5)), false},

		{"gap up touching the prior high", "gap_up",
			one(filler, bar(10.3, 10.6, 10.2, 10.5)), false},

		{"double volume at the 20-day high", "double_volume_high",
			bars(repeat(19, filler), one(vol(bar(10.1, 10.3, 10.0, 10.1), 19001))), true},
		{"volume only 1.9x", "double_volume_high",
			bars(repeat(19, filler), one(vol(bar(10.1, 10.3, 10.0, 10.1), 19000))), false},
		{"double volume below the prior high", "double_volume_high",
			bars(repeat(19, filler), one(vol(bar(10, 10.3, 9.95, 10.05), 30000))), false},
	})
}

func TestCatalog_TopReversals(t *testing.T) {
	filler := bar(10, 10.2, 9.9, 10.1)
	longBull := bar(10, 11.1, 9.9, 11)
	star := bar(11.5, 11.6, 11.4, 11.45)

	rising := make([]model.Bar, 19)
	for i := range rising {
		c := 10 + 0.1*float64(i)
		rising[i] = bar(c-0.05, c+0.1, c-0.15, c)
	}
	plateau := repeat(19, bar(12, 12.25, 11.75, 12))

	runCandleCases(t, []candleCase{
		{"evening star", "evening_star",
			bars(repeat(9, filler), one(longBull, star, bar(11.2, 11.25, 10.3, 10.4))), true},
		{"evening star closing on the midpoint", "evening_star",
			bars(repeat(9, filler), one(longBull, star, bar(11.2, 11.25, 10.3, 10.5))), false},

		{"dark cloud cover", "dark_cloud_cover",
			one(longBull, bar(11.3, 11.4, 10.3, 10.4)), true},
		{"dark cloud opening at the prior high", "dark_cloud_cover",
			one(longBull, bar(11.1, 11.15, 10.3, 10.4)), false},

		{"shooting star after a run-up", "shooting_star",
			bars(rising, one(bar(12, 13, 12, 12.25))), true},
		{"shooting star with upper shadow exactly twice the body", "shooting_star",
			bars(rising, one(bar(12, 12.75, 12, 12.25))), false},

		{"hanging man after a run-up", "hanging_man",
			bars(rising, one(bar(12, 12.25, 11.25, 12.25))), true},
		{"hanging man without the run-up", "hanging_man",
			bars(plateau, one(bar(12, 12.25, 11.25, 12.25))), false},

		{"gap down", "gap_down",
			one(filler, bar(9.7, 9.8, 9.5, 9.6)), true},
		{"gap down touching the prior low", "gap_down",
			one(filler, bar(9.7, 9.9, 9.5, 9.6)), false},

		{"bearish harami opening on the prior close", "bearish_harami",
			bars(repeat(9, filler), one(longBull, bar(11, 11.05, 10.4, 10.5))), true},
		{"bearish harami opening above the prior body", "bearish_harami",
			bars(repeat(9, filler), one(longBull, bar(11.125, 11.2, 10.4, 10.5))), false},
	})
}

func TestCatalog_IndicatorCases(t *testing.T) {
	snapshot := func(vals map[model.Indicator]float64) *model.IndicatorSnapshot {
		s := model.NewIndicatorSnapshot(10.5)
		for k, v := range vals {
			s.Set(k, v)
		}
		return s
	}

	tests := []struct {
		name string
		rule string
		bar  model.Bar
		snap map[model.Indicator]float64
		want bool
	}{
		{"golden spider", "golden_spider", bar(10.4, 10.6, 10.3, 10.5),
			map[model.Indicator]float64{model.MA5: 10.4, model.MA10: 10.35, model.MA20: 10.3}, true},
		{"golden spider with averages too spread", "golden_spider", bar(10.4, 10.6, 10.3, 10.5),
			map[model.Indicator]float64{model.MA5: 10.4, model.MA10: 10.35, model.MA20: 10.2}, false},
		{"golden spider closing under ma5", "golden_spider", bar(10.4, 10.6, 10.3, 10.5),
			map[model.Indicator]float64{model.MA5: 10.5, model.MA10: 10.45, model.MA20: 10.4}, false},

		{"guillotine", "guillotine", bar(10.6, 10.7, 9.8, 9.9),
			map[model.Indicator]float64{model.MA5: 10, model.MA10: 10.2, model.MA20: 10.1}, true},
		{"guillotine opening on the highest average", "guillotine", bar(10.2, 10.7, 9.8, 9.9),
			map[model.Indicator]float64{model.MA5: 10, model.MA10: 10.2, model.MA20: 10.1}, false},

		{"ma bullish alignment", "ma_bullish_alignment", bar(10.4, 10.6, 10.3, 10.5),
			map[model.Indicator]float64{model.MA5: 11, model.MA10: 10.5, model.MA20: 10.2, model.MA60: 10}, true},
		{"ma20 level with ma60", "ma_bullish_alignment", bar(10.4, 10.6, 10.3, 10.5),
			map[model.Indicator]float64{model.MA5: 11, model.MA10: 10.5, model.MA20: 10, model.MA60: 10}, false},
		{"alignment with ma60 undefined", "ma_bullish_alignment", bar(10.4, 10.6, 10.3, 10.5),
			map[model.Indicator]float64{model.MA5: 11, model.MA10: 10.5, model.MA20: 10.2}, false},

		{"kdj golden cross", "kdj_golden_cross", bar(10.4, 10.6, 10.3, 10.5),
			map[model.Indicator]float64{model.KDJKPrev: 20, model.KDJDPrev: 25, model.KDJK: 30, model.KDJD: 27}, true},
		{"kdj touching but not crossing", "kdj_golden_cross", bar(10.4, 10.6, 10.3, 10.5),
			map[model.Indicator]float64{model.KDJKPrev: 20, model.KDJDPrev: 25, model.KDJK: 27, model.KDJD: 27}, false},

		{"macd dead cross", "macd_dead_cross", bar(10.4, 10.6, 10.3, 10.5),
			map[model.Indicator]float64{model.MACDDifPrev: 0.1, model.MACDDeaPrev: 0.05, model.MACDDif: 0.02, model.MACDDea: 0.04}, true},

		{"volume expansion", "volume_expansion", vol(bar(10.4, 10.6, 10.3, 10.5), 10000),
			map[model.Indicator]float64{model.VolumeMA5: 6000}, true},
		{"volume exactly 1.5x the average", "volume_expansion", vol(bar(10.4, 10.6, 10.3, 10.5), 15000),
			map[model.Indicator]float64{model.VolumeMA5: 10000}, false},
		{"volume average of zero", "volume_expansion", vol(bar(10.4, 10.6, 10.3, 10.5), 15000),
			map[model.Indicator]float64{model.VolumeMA5: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := findMatch(Detect(series(t, tt.bar), snapshot(tt.snap)), tt.rule)
			if ok != tt.want {
				t.Errorf("%s matched=%v, want %v", tt.rule, ok, tt.want)
			}
		})
	}
}
