package scanner

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"AlphaScanner/internal/calculator"
	"AlphaScanner/internal/collector"
	"AlphaScanner/internal/model"
	"AlphaScanner/internal/pattern"
	"AlphaScanner/internal/recorder"
	"AlphaScanner/internal/strategy"
)

// Skip reasons reported in ScanReport.Skipped.
const (
	SkipUnavailable      = "unavailable"
	SkipFetchError       = "fetch_error"
	SkipInvalidSeries    = "invalid_series"
	SkipInsufficientData = "insufficient_data"
	SkipVetoed           = "vetoed"
	SkipBelowThreshold   = "below_threshold"
	SkipCancelled        = "cancelled"
	skipFilteredPrefix   = "filtered_"
)

const (
	DefaultWorkers      = 16
	DefaultFetchTimeout = 20 * time.Second
)

// Options wires the scanner's collaborators. Fundamentals, Sentiment and History may be nil.
type Options struct {
	Collector    *collector.Collector
	Scorer       *strategy.Scorer
	Fundamentals collector.FundamentalsProvider
	Sentiment    collector.SentimentProvider
	History      recorder.History
	Filter       UniverseFilter
	Workers      int
	FetchTimeout time.Duration
}

// Scanner evaluates a symbol universe concurrently.
type Scanner struct {
	opts Options
	now  func() time.Time
}

func New(opts Options) *Scanner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	return &Scanner{opts: opts, now: time.Now}
}

type outcome struct {
	done      bool
	evaluated bool
	skip      string
	result    *model.ScanResult
}

// Run scans symbols with at most Workers in flight. Per-symbol failures are counted
// and logged; only cancellation of ctx is returned as an error, alongside the partial report.
func (s *Scanner) Run(ctx context.Context, symbols []model.Symbol) (*model.ScanReport, error) {
	report := &model.ScanReport{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		Scanned:   len(symbols),
		Skipped:   map[string]int{},
	}
	logger := log.With().Str("run_id", report.RunID).Logger()
	logger.Info().Int("symbols", len(symbols)).Int("workers", s.opts.Workers).Msg("scan started")

	slots := make([]outcome, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, sym := range symbols {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			slots[i] = s.scanOne(gctx, sym)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range slots {
		switch {
		case !o.done:
			report.Skipped[SkipCancelled]++
		case o.result != nil:
			report.Published = append(report.Published, *o.result)
		default:
			report.Skipped[o.skip]++
		}
		if o.evaluated {
			report.Evaluated++
		}
	}
	sort.SliceStable(report.Published, func(i, j int) bool {
		a, b := report.Published[i], report.Published[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		return a.Symbol < b.Symbol
	})

	if s.opts.History != nil {
		for _, r := range report.Published {
			if err := s.opts.History.MarkSeen(ctx, r.Symbol, r.EvaluatedAt, r.TotalScore); err != nil {
				logger.Warn().Err(err).Str("symbol", r.Symbol).Msg("mark seen failed")
			}
		}
	}

	report.FinishedAt = s.now()
	logger.Info().
		Int("evaluated", report.Evaluated).
		Int("published", len(report.Published)).
		Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).
		Msg("scan finished")

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Scanner) scanOne(ctx context.Context, sym model.Symbol) outcome {
	logger := log.With().Str("symbol", sym.Code).Logger()

	var fund *model.Fundamentals
	if s.opts.Fundamentals != nil {
		f, err := s.opts.Fundamentals.Fundamentals(ctx, sym.Code)
		if err != nil && !errors.Is(err, collector.ErrUnavailable) {
			logger.Warn().Err(err).Msg("fundamentals lookup failed")
		}
		fund = f
	}
	if ok, reason := s.opts.Filter.Allow(sym, fund); !ok {
		return outcome{done: true, skip: skipFilteredPrefix + reason}
	}
	name := sym.Name
	if name == "" && fund != nil {
		name = fund.Name
	}

	fctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	series, err := s.opts.Collector.Collect(fctx, sym.Code, name)
	cancel()
	if err != nil {
		switch {
		case errors.Is(err, collector.ErrUnavailable):
			return outcome{done: true, skip: SkipUnavailable}
		case errors.Is(err, model.ErrInvalidSeries):
			logger.Warn().Err(err).Msg("rejected bar series")
			return outcome{done: true, skip: SkipInvalidSeries}
		case ctx.Err() != nil:
			return outcome{}
		}
		logger.Warn().Err(err).Msg("fetch failed")
		return outcome{done: true, skip: SkipFetchError}
	}

	var sent *model.Sentiment
	if s.opts.Sentiment != nil {
		v, err := s.opts.Sentiment.Sentiment(ctx, sym.Code)
		if err != nil && !errors.Is(err, collector.ErrUnavailable) {
			logger.Warn().Err(err).Msg("sentiment lookup failed")
		}
		sent = v
	}

	ev, err := s.opts.Scorer.Evaluate(series, strategy.External{Fundamentals: fund, Sentiment: sent})
	if err != nil {
		if errors.Is(err, calculator.ErrInsufficientData) {
			return outcome{done: true, skip: SkipInsufficientData}
		}
		logger.Warn().Err(err).Msg("evaluate failed")
		return outcome{done: true, skip: SkipFetchError}
	}
	logger.Debug().Int("score", ev.Score.TotalScore).Bool("vetoed", ev.Score.Vetoed).Msg("evaluated")

	if !ev.Published {
		skip := SkipBelowThreshold
		if ev.Score.Vetoed {
			skip = SkipVetoed
		}
		return outcome{done: true, evaluated: true, skip: skip}
	}

	res := toResult(ev, s.now())
	if s.opts.History != nil {
		rec, seen, err := s.opts.History.LastSeen(ctx, sym.Code)
		if err != nil {
			logger.Warn().Err(err).Msg("history lookup failed")
		}
		if seen {
			res.SeenBefore = true
			res.LastSeenAt = rec.LastSeen
		}
	}
	return outcome{done: true, evaluated: true, result: &res}
}

func toResult(ev *model.Evaluation, at time.Time) model.ScanResult {
	bullish, bearish := pattern.Names(ev.Matches)
	get := func(name model.Indicator) *float64 {
		v, ok := ev.Snapshot.Get(name)
		if !ok {
			return nil
		}
		return &v
	}
	res := model.ScanResult{
		Symbol:          ev.Symbol,
		Name:            ev.Name,
		TotalScore:      ev.Score.TotalScore,
		Close:           ev.Close,
		BullishPatterns: bullish,
		BearishPatterns: bearish,
		CMF:             get(model.CMF20),
		CCI:             get(model.CCI14),
		ADX:             get(model.ADX14),
		RSI:             get(model.RSI14),
		ATR:             get(model.ATR14),
		Factors:         ev.Score.Factors,
		EvaluatedAt:     at,
	}
	if ev.Plan != nil {
		res.Plan = *ev.Plan
	}
	if ev.Sentiment != nil {
		res.SentimentNote = ev.Sentiment.Summary
	}
	return res
}
