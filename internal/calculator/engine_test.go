package calculator

import (
	"errors"
	"math"
	"testing"

	"AlphaScanner/internal/model"
)

func TestCompute_InsufficientData(t *testing.T) {
	for _, n := range []int{0, 1, 30, MinBars - 1} {
		s := buildSeries(t, n, risingBar)
		snap, err := Compute(s)
		if !errors.Is(err, ErrInsufficientData) {
			t.Errorf("n=%d: expected ErrInsufficientData, got %v", n, err)
		}
		if snap != nil {
			t.Errorf("n=%d: expected nil snapshot", n)
		}
	}
	if _, err := Compute(nil); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("nil series: expected ErrInsufficientData, got %v", err)
	}
}

func TestCompute_RisingSeries(t *testing.T) {
	s := buildSeries(t, 120, risingBar)
	snap, err := Compute(s)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	want := []model.Indicator{
		model.MA5, model.MA10, model.MA20, model.MA60,
		model.MACDDif, model.MACDDea, model.KDJK, model.KDJD, model.KDJJ,
		model.RSI14, model.ATR14, model.ADX14, model.CCI14, model.CMF20,
		model.BBUpper, model.BBLower, model.BBWidth, model.OBV, model.OBVMA10,
		model.VolumeRatio, model.Change5,
	}
	for _, name := range want {
		if _, ok := snap.Get(name); !ok {
			t.Errorf("expected %s to be defined", name)
		}
	}

	ma5, _ := snap.Get(model.MA5)
	ma20, _ := snap.Get(model.MA20)
	ma60, _ := snap.Get(model.MA60)
	if !(ma5 > ma20 && ma20 > ma60) {
		t.Errorf("expected bullish MA order, got ma5=%.3f ma20=%.3f ma60=%.3f", ma5, ma20, ma60)
	}
	if rsi, _ := snap.Get(model.RSI14); rsi != 100 {
		t.Errorf("expected RSI 100 for monotonic gains, got %.2f", rsi)
	}
	if dif, _ := snap.Get(model.MACDDif); dif <= 0 {
		t.Errorf("expected positive MACD dif, got %.4f", dif)
	}
	plus, _ := snap.Get(model.PlusDI)
	minus, _ := snap.Get(model.MinusDI)
	if plus <= minus {
		t.Errorf("expected +DI > -DI, got %.2f <= %.2f", plus, minus)
	}
	if adx, _ := snap.Get(model.ADX14); adx < 25 {
		t.Errorf("expected strong ADX, got %.2f", adx)
	}
}

func TestCompute_ZeroVolumeAndZeroRange(t *testing.T) {
	s := buildSeries(t, 80, func(i int) model.Bar {
		b := risingBar(i)
		b.Volume = 0
		if i == 79 {
			// flat doji on the latest bar
			b = model.Bar{Open: b.Close, High: b.Close, Low: b.Close, Close: b.Close}
		}
		return b
	})
	snap, err := Compute(s)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if _, ok := snap.Get(model.CMF20); ok {
		t.Error("CMF should be undefined without volume")
	}
	if _, ok := snap.Get(model.VolumeRatio); ok {
		t.Error("volume ratio should be undefined without volume")
	}
	for _, name := range snap.Names() {
		v, _ := snap.Get(name)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s is not finite: %v", name, v)
		}
	}
}

func TestCompute_FlatSeries(t *testing.T) {
	s := buildSeries(t, 70, func(int) model.Bar {
		return model.Bar{Open: 5, High: 5, Low: 5, Close: 5, Volume: 100}
	})
	snap, err := Compute(s)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	for _, name := range []model.Indicator{model.ADX14, model.CCI14, model.KDJK} {
		if _, ok := snap.Get(name); ok {
			t.Errorf("%s should be undefined on a flat series", name)
		}
	}
	if cmf, ok := snap.Get(model.CMF20); !ok || cmf != 0 {
		t.Errorf("expected CMF 0 for zero-range bars, got %v (ok=%v)", cmf, ok)
	}
	if atr, ok := snap.Get(model.ATR14); !ok || atr != 0 {
		t.Errorf("expected ATR 0, got %v (ok=%v)", atr, ok)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	s := buildSeries(t, 90, risingBar)
	a, _ := Compute(s)
	b, _ := Compute(s)
	for _, name := range a.Names() {
		va, _ := a.Get(name)
		vb, ok := b.Get(name)
		if !ok || va != vb {
			t.Errorf("%s differs between runs: %v vs %v", name, va, vb)
		}
	}
}
