package calculator

import (
	"testing"
	"time"

	"AlphaScanner/internal/model"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func buildSeries(t *testing.T, n int, gen func(i int) model.Bar) *model.BarSeries {
	t.Helper()
	bars := make([]model.Bar, n)
	for i := range bars {
		b := gen(i)
		b.Date = day0.AddDate(0, 0, i)
		bars[i] = b
	}
	s, err := model.NewBarSeries("TEST", "Test Co", bars)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	return s
}

func risingBar(i int) model.Bar {
	c := 10 + 0.1*float64(i)
	return model.Bar{Open: c - 0.05, High: c + 0.1, Low: c - 0.15, Close: c, Volume: 1000 + int64(i)*10}
}

func approx(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}
