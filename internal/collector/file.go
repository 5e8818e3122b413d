package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"AlphaScanner/internal/model"
)

// FileBar is the on-disk row of a Parquet bar file. Timestamp is Unix milliseconds.
type FileBar struct {
	Timestamp int64   `parquet:"t"`
	Open      float64 `parquet:"o"`
	High      float64 `parquet:"h"`
	Low       float64 `parquet:"l"`
	Close     float64 `parquet:"c"`
	Volume    int64   `parquet:"v"`
}

// FileFetcher reads <Dir>/<symbol>.parquet, falling back to <Dir>/<symbol>.csv.
// CSV files carry a header row: date,open,high,low,close,volume with dates as 2006-01-02.
type FileFetcher struct {
	Dir string
}

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		bars []model.Bar
		err  error
	)
	pq := filepath.Join(f.Dir, symbol+".parquet")
	cs := filepath.Join(f.Dir, symbol+".csv")
	switch {
	case fileExists(pq):
		bars, err = readParquetBars(pq)
	case fileExists(cs):
		bars, err = readCSVBars(cs)
	default:
		return nil, fmt.Errorf("no bar file for %s in %s: %w", symbol, f.Dir, ErrUnavailable)
	}
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("bar file for %s is empty: %w", symbol, ErrUnavailable)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return trimTail(bars, days), nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func readParquetBars(path string) ([]model.Bar, error) {
	rows, err := parquet.ReadFile[FileBar](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	bars := make([]model.Bar, len(rows))
	for i, r := range rows {
		bars[i] = model.Bar{
			Date:   time.UnixMilli(r.Timestamp).UTC(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		}
	}
	return bars, nil
}

// WriteParquetBars stores bars in the layout FileFetcher reads.
func WriteParquetBars(path string, bars []model.Bar) error {
	rows := make([]FileBar, len(bars))
	for i, b := range bars {
		rows[i] = FileBar{
			Timestamp: b.Date.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}
	return parquet.WriteFile(path, rows)
}

func readCSVBars(path string) ([]model.Bar, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = 6
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header %s: %w", path, err)
	}
	if strings.ToLower(strings.TrimSpace(header[0])) != "date" {
		return nil, fmt.Errorf("csv %s: unexpected header %v", path, header)
	}

	var bars []model.Bar
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
		b, err := parseCSVBar(rec)
		if err != nil {
			return nil, fmt.Errorf("csv %s line %d: %w", path, line, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseCSVBar(rec []string) (model.Bar, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[0]))
	if err != nil {
		return model.Bar{}, err
	}
	var px [4]float64
	for i := range px {
		if px[i], err = strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64); err != nil {
			return model.Bar{}, err
		}
	}
	vol, err := strconv.ParseFloat(strings.TrimSpace(rec[5]), 64)
	if err != nil {
		return model.Bar{}, err
	}
	return model.Bar{Date: date, Open: px[0], High: px[1], Low: px[2], Close: px[3], Volume: int64(vol)}, nil
}
