package collector

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"AlphaScanner/internal/model"
)

// FundamentalsProvider supplies valuation data for a symbol.
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error)
}

// SentimentProvider supplies a bounded news sentiment score for a symbol.
type SentimentProvider interface {
	Sentiment(ctx context.Context, symbol string) (*model.Sentiment, error)
}

// FundamentalsFile serves fundamentals from a YAML map keyed by symbol code:
//
//	"600519":
//	  name: 贵州茅台
//	  pe: 28.5
//	  pb: 8.1
//	  turnover_pct: 0.4
//	  market_cap: 2.1e12
//	  price: 1680
type FundamentalsFile struct {
	data map[string]model.Fundamentals
}

// LoadFundamentalsFile reads a fundamentals snapshot.
func LoadFundamentalsFile(path string) (*FundamentalsFile, error) {
	data := map[string]model.Fundamentals{}
	if err := loadYAML(path, &data); err != nil {
		return nil, fmt.Errorf("load fundamentals: %w", err)
	}
	return &FundamentalsFile{data: data}, nil
}

func (f *FundamentalsFile) Fundamentals(_ context.Context, symbol string) (*model.Fundamentals, error) {
	v, ok := f.data[symbol]
	if !ok {
		return nil, fmt.Errorf("fundamentals %s: %w", symbol, ErrUnavailable)
	}
	return &v, nil
}

// SentimentFile serves sentiment from a YAML map keyed by symbol code.
type SentimentFile struct {
	data map[string]model.Sentiment
}

// LoadSentimentFile reads a sentiment snapshot.
func LoadSentimentFile(path string) (*SentimentFile, error) {
	data := map[string]model.Sentiment{}
	if err := loadYAML(path, &data); err != nil {
		return nil, fmt.Errorf("load sentiment: %w", err)
	}
	return &SentimentFile{data: data}, nil
}

func (f *SentimentFile) Sentiment(_ context.Context, symbol string) (*model.Sentiment, error) {
	v, ok := f.data[symbol]
	if !ok {
		return nil, fmt.Errorf("sentiment %s: %w", symbol, ErrUnavailable)
	}
	return &v, nil
}

// LoadUniverse reads a YAML list of {code, name} entries.
func LoadUniverse(path string) ([]model.Symbol, error) {
	var syms []model.Symbol
	if err := loadYAML(path, &syms); err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	return syms, nil
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
