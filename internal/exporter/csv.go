package exporter

import (
	"encoding/csv"
	"os"
	"strconv"

	"AlphaScanner/internal/model"
)

// CSVSaver writes results as CSV with a header row.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

var csvHeader = []string{
	"rank", "symbol", "name", "total_score", "close",
	"entry_low", "entry_high", "stop_loss", "take_profit",
	"bullish", "bearish", "cmf", "cci", "adx", "rsi", "atr",
	"factors", "sentiment", "seen_before",
}

func (CSVSaver) Save(report *model.ScanReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	opt := func(v *float64) string {
		if v == nil {
			return ""
		}
		return ff(*v)
	}
	for _, r := range Rows(report) {
		rec := []string{
			strconv.Itoa(int(r.Rank)), r.Symbol, r.Name, strconv.Itoa(int(r.TotalScore)), ff(r.Close),
			r.EntryLow, r.EntryHigh, r.StopLoss, r.TakeProfit,
			r.Bullish, r.Bearish, opt(r.CMF), opt(r.CCI), opt(r.ADX), opt(r.RSI), opt(r.ATR),
			r.Factors, r.Sentiment, strconv.FormatBool(r.SeenBefore),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
