package exporter

import (
	"fmt"
	"path/filepath"
	"strings"

	"AlphaScanner/internal/model"
)

// Saver writes the published results of a scan to a file.
type Saver interface {
	Save(report *model.ScanReport, path string) error
	Extension() string
}

// NewSaver returns the implementation for format (csv or parquet), or nil if unsupported.
func NewSaver(format string) Saver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}

// FileName builds <dir>/scan_<date>_<runid8>.<ext>.
func FileName(dir string, report *model.ScanReport, s Saver) string {
	id := report.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return filepath.Join(dir, fmt.Sprintf("scan_%s_%s.%s", report.StartedAt.Format("20060102"), id, s.Extension()))
}

// Row is the flat export record for one published symbol.
type Row struct {
	RunID       string   `parquet:"run_id"`
	Rank        int32    `parquet:"rank"`
	Symbol      string   `parquet:"symbol"`
	Name        string   `parquet:"name"`
	TotalScore  int32    `parquet:"total_score"`
	Close       float64  `parquet:"close"`
	EntryLow    string   `parquet:"entry_low"`
	EntryHigh   string   `parquet:"entry_high"`
	StopLoss    string   `parquet:"stop_loss"`
	TakeProfit  string   `parquet:"take_profit"`
	Bullish     string   `parquet:"bullish"`
	Bearish     string   `parquet:"bearish"`
	CMF         *float64 `parquet:"cmf,optional"`
	CCI         *float64 `parquet:"cci,optional"`
	ADX         *float64 `parquet:"adx,optional"`
	RSI         *float64 `parquet:"rsi,optional"`
	ATR         *float64 `parquet:"atr,optional"`
	Factors     string   `parquet:"factors"`
	Sentiment   string   `parquet:"sentiment,optional"`
	SeenBefore  bool     `parquet:"seen_before"`
	EvaluatedAt int64    `parquet:"evaluated_at"`
}

// Rows flattens a report in rank order.
func Rows(report *model.ScanReport) []Row {
	rows := make([]Row, len(report.Published))
	for i, r := range report.Published {
		factors := make([]string, len(r.Factors))
		for j, f := range r.Factors {
			factors[j] = fmt.Sprintf("%s%+d", f.Label, f.Delta)
		}
		rows[i] = Row{
			RunID:       report.RunID,
			Rank:        int32(i + 1),
			Symbol:      r.Symbol,
			Name:        r.Name,
			TotalScore:  int32(r.TotalScore),
			Close:       r.Close,
			EntryLow:    r.Plan.EntryLow.StringFixed(2),
			EntryHigh:   r.Plan.EntryHigh.StringFixed(2),
			StopLoss:    r.Plan.StopLoss.StringFixed(2),
			TakeProfit:  r.Plan.TakeProfit.StringFixed(2),
			Bullish:     strings.Join(r.BullishPatterns, "|"),
			Bearish:     strings.Join(r.BearishPatterns, "|"),
			CMF:         r.CMF,
			CCI:         r.CCI,
			ADX:         r.ADX,
			RSI:         r.RSI,
			ATR:         r.ATR,
			Factors:     strings.Join(factors, "; "),
			Sentiment:   r.SentimentNote,
			SeenBefore:  r.SeenBefore,
			EvaluatedAt: r.EvaluatedAt.Unix(),
		}
	}
	return rows
}
