package scanner

import (
	"strings"

	"AlphaScanner/internal/model"
)

// UniverseFilter drops symbols the scan should not consider. Fundamentals-based
// bounds apply only when fundamentals are available; zero disables a bound.
type UniverseFilter struct {
	ExcludePrefixes   []string `yaml:"exclude_prefixes"`
	ExcludeNameTokens []string `yaml:"exclude_name_tokens"`
	MinMarketCap      float64  `yaml:"min_market_cap"`
	MinPrice          float64  `yaml:"min_price"`
	MinTurnoverPct    float64  `yaml:"min_turnover_pct"`
	MaxTurnoverPct    float64  `yaml:"max_turnover_pct"`
}

// DefaultUniverseFilter keeps main-board names: no ChiNext, STAR, BSE/NEEQ or
// special-treatment stocks, cap above 4bn, price above 3, turnover in (1, 20)%.
func DefaultUniverseFilter() UniverseFilter {
	return UniverseFilter{
		ExcludePrefixes:   []string{"30", "688", "8", "4"},
		ExcludeNameTokens: []string{"ST", "退"},
		MinMarketCap:      40e8,
		MinPrice:          3,
		MinTurnoverPct:    1,
		MaxTurnoverPct:    20,
	}
}

// Allow reports whether sym passes, and if not, which check rejected it.
func (f UniverseFilter) Allow(sym model.Symbol, fund *model.Fundamentals) (bool, string) {
	for _, p := range f.ExcludePrefixes {
		if p != "" && strings.HasPrefix(sym.Code, p) {
			return false, "board"
		}
	}
	name := sym.Name
	if name == "" && fund != nil {
		name = fund.Name
	}
	for _, tok := range f.ExcludeNameTokens {
		if tok != "" && strings.Contains(name, tok) {
			return false, "name"
		}
	}
	if fund == nil {
		return true, ""
	}
	if f.MinMarketCap > 0 && fund.MarketCap > 0 && fund.MarketCap <= f.MinMarketCap {
		return false, "market_cap"
	}
	if f.MinPrice > 0 && fund.Price > 0 && fund.Price <= f.MinPrice {
		return false, "price"
	}
	if fund.TurnoverPct > 0 {
		if f.MinTurnoverPct > 0 && fund.TurnoverPct <= f.MinTurnoverPct {
			return false, "turnover"
		}
		if f.MaxTurnoverPct > 0 && fund.TurnoverPct >= f.MaxTurnoverPct {
			return false, "turnover"
		}
	}
	return true, ""
}
