package strategy

import "fmt"

// Severity decides what a gate rule does when it trips.
type Severity string

const (
	SeverityOff     Severity = "off"
	SeverityPenalty Severity = "penalty"
	SeverityVeto    Severity = "veto"
)

func (s Severity) valid() bool {
	switch s {
	case SeverityOff, SeverityPenalty, SeverityVeto:
		return true
	}
	return false
}

// Severities configures each gate rule class independently.
type Severities struct {
	BearishTrend   Severity `yaml:"bearish_trend"`
	BearishPattern Severity `yaml:"bearish_pattern"`
}

// Policy holds every amount and threshold the scorer uses.
// Start from DefaultPolicy and override selectively; yaml.v3 leaves absent keys untouched.
type Policy struct {
	Severity              Severities `yaml:"severity"`
	TrendPenalty          int        `yaml:"trend_penalty"`
	BearishPatternPenalty int        `yaml:"bearish_pattern_penalty"`

	TrendBonus       int     `yaml:"trend_bonus"`
	StrongTrendADX   float64 `yaml:"strong_trend_adx"`
	StrongTrendBonus int     `yaml:"strong_trend_bonus"`

	StrongInflowCMF   float64 `yaml:"strong_inflow_cmf"`
	StrongInflowBonus int     `yaml:"strong_inflow_bonus"`
	InflowBonus       int     `yaml:"inflow_bonus"`

	CCIBreakout      float64 `yaml:"cci_breakout"`
	CCIBonus         int     `yaml:"cci_bonus"`
	MACDBonus        int     `yaml:"macd_above_zero_bonus"`

	Valuation ValuationPolicy `yaml:"valuation"`
	Overlays  OverlayPolicy   `yaml:"overlays"`

	SentimentCap     float64 `yaml:"sentiment_cap"`
	PublishThreshold int     `yaml:"publish_threshold"`
}

// ValuationPolicy is the PE/PB banding applied when fundamentals are present.
type ValuationPolicy struct {
	LossPenalty  int     `yaml:"loss_penalty"`
	CheapPE      float64 `yaml:"cheap_pe"`
	CheapBonus   int     `yaml:"cheap_bonus"`
	FairPE       float64 `yaml:"fair_pe"`
	FairBonus    int     `yaml:"fair_bonus"`
	ExpensivePE  float64 `yaml:"expensive_pe"`
	ExpensivePen int     `yaml:"expensive_penalty"`
	LowPB        float64 `yaml:"low_pb"`
	LowPBBonus   int     `yaml:"low_pb_bonus"`
}

// OverlayPolicy configures the risk overlays.
type OverlayPolicy struct {
	HighTurnoverPct   float64 `yaml:"high_turnover_pct"`
	StalledChange     float64 `yaml:"stalled_change"`
	StalledPenalty    int     `yaml:"stalled_penalty"`
	SqueezeMASpread   float64 `yaml:"squeeze_ma_spread"`
	SqueezeBandWidth  float64 `yaml:"squeeze_band_width"`
	SqueezeBonus      int     `yaml:"squeeze_bonus"`
	CapitulationBonus int     `yaml:"capitulation_bonus"`
	DivergencePenalty int     `yaml:"divergence_penalty"`
}

// DefaultPolicy returns the reference scoring configuration.
func DefaultPolicy() Policy {
	return Policy{
		Severity: Severities{
			BearishTrend:   SeverityVeto,
			BearishPattern: SeverityPenalty,
		},
		TrendPenalty:          20,
		BearishPatternPenalty: 30,

		TrendBonus:       20,
		StrongTrendADX:   25,
		StrongTrendBonus: 10,

		StrongInflowCMF:   0.15,
		StrongInflowBonus: 15,
		InflowBonus:       5,

		CCIBreakout:      100,
		CCIBonus:         10,
		MACDBonus:        10,

		Valuation: ValuationPolicy{
			LossPenalty:  10,
			CheapPE:      15,
			CheapBonus:   10,
			FairPE:       30,
			FairBonus:    5,
			ExpensivePE:  60,
			ExpensivePen: 10,
			LowPB:        1.5,
			LowPBBonus:   5,
		},
		Overlays: OverlayPolicy{
			HighTurnoverPct:   15,
			StalledChange:     0.02,
			StalledPenalty:    15,
			SqueezeMASpread:   0.02,
			SqueezeBandWidth:  0.10,
			SqueezeBonus:      15,
			CapitulationBonus: 40,
			DivergencePenalty: 40,
		},

		SentimentCap:     20,
		PublishThreshold: 60,
	}
}

// Validate rejects severities outside off/penalty/veto and negative amounts.
func (p Policy) Validate() error {
	if !p.Severity.BearishTrend.valid() {
		return fmt.Errorf("scoring.severity.bearish_trend: unknown severity %q", p.Severity.BearishTrend)
	}
	if !p.Severity.BearishPattern.valid() {
		return fmt.Errorf("scoring.severity.bearish_pattern: unknown severity %q", p.Severity.BearishPattern)
	}
	if p.TrendPenalty < 0 || p.BearishPatternPenalty < 0 {
		return fmt.Errorf("scoring: penalties are magnitudes and must not be negative")
	}
	if p.SentimentCap < 0 {
		return fmt.Errorf("scoring.sentiment_cap must not be negative")
	}
	return nil
}
