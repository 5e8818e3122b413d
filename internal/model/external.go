package model

// Symbol identifies one equity in the scan universe.
type Symbol struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Fundamentals is the valuation snapshot supplied by the fundamentals collaborator.
// Zero Price, TurnoverPct or MarketCap means unknown. PE and PB are nil when the
// source did not report them; a reported PE at or below zero is a loss.
type Fundamentals struct {
	Name        string   `yaml:"name"`
	Price       float64  `yaml:"price"`
	PERatio     *float64 `yaml:"pe"`
	PBRatio     *float64 `yaml:"pb"`
	TurnoverPct float64  `yaml:"turnover_pct"`
	MarketCap   float64  `yaml:"market_cap"`
}

// Sentiment is the bounded news score supplied by the sentiment collaborator.
type Sentiment struct {
	Score   float64 `yaml:"score"`
	Summary string  `yaml:"summary"`
}
