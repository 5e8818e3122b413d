package pattern

import (
	"math/rand"
	"testing"
	"time"

	"AlphaScanner/internal/model"
)

var day0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func series(t *testing.T, bars ...model.Bar) *model.BarSeries {
	t.Helper()
	dated := make([]model.Bar, len(bars))
	for i, b := range bars {
		b.Date = day0.AddDate(0, 0, i)
		dated[i] = b
	}
	s, err := model.NewBarSeries("600000", "浦发银行", dated)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	return s
}

func bar(o, h, l, c float64) model.Bar {
	return model.Bar{Open: o, High: h, Low: l, Close: c, Volume: 10000}
}

func repeat(n int, b model.Bar) []model.Bar {
	out := make([]model.Bar, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func randomBars(rnd *rand.Rand, n int) []model.Bar {
	out := make([]model.Bar, n)
	for i := range out {
		o := 10 + rnd.Float64()*2
		c := 10 + rnd.Float64()*2
		out[i] = model.Bar{
			Open:   o,
			Close:  c,
			High:   max(o, c) + rnd.Float64()*0.5,
			Low:    min(o, c) - rnd.Float64()*0.5,
			Volume: rnd.Int63n(50000),
		}
	}
	return out
}

func findMatch(matches []model.PatternMatch, name string) (model.PatternMatch, bool) {
	for _, m := range matches {
		if m.Name == name {
			return m, true
		}
	}
	return model.PatternMatch{}, false
}
