package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"AlphaScanner/internal/model"
)

// SQLiteRecorder persists scan runs and seen-before history to SQLite.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			run_id      TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			scanned     INTEGER,
			evaluated   INTEGER,
			published   INTEGER,
			skipped     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON scan_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS scan_results (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			rank         INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			name         TEXT,
			total_score  INTEGER,
			close        REAL,
			entry_low    TEXT,
			entry_high   TEXT,
			stop_loss    TEXT,
			take_profit  TEXT,
			bullish      TEXT,
			bearish      TEXT,
			cmf          REAL,
			cci          REAL,
			adx          REAL,
			rsi          REAL,
			atr          REAL,
			factors      TEXT,
			sentiment    TEXT,
			seen_before  INTEGER,
			evaluated_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON scan_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_symbol ON scan_results(symbol)`,

		`CREATE TABLE IF NOT EXISTS seen_symbols (
			symbol     TEXT PRIMARY KEY,
			first_seen INTEGER NOT NULL,
			last_seen  INTEGER NOT NULL,
			last_score INTEGER,
			times      INTEGER NOT NULL DEFAULT 0
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run header and one row per published result in one transaction.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, report *model.ScanReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	skipped, err := json.Marshal(report.Skipped)
	if err != nil {
		return fmt.Errorf("encode skipped: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO scan_runs
		(run_id, started_at, finished_at, scanned, evaluated, published, skipped)
		VALUES (?,?,?,?,?,?,?)`,
		report.RunID, report.StartedAt.Unix(), report.FinishedAt.Unix(),
		report.Scanned, report.Evaluated, len(report.Published), string(skipped),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, res := range report.Published {
		factors, err := json.Marshal(res.Factors)
		if err != nil {
			return fmt.Errorf("encode factors %s: %w", res.Symbol, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO scan_results
			(run_id, rank, symbol, name, total_score, close,
			 entry_low, entry_high, stop_loss, take_profit,
			 bullish, bearish, cmf, cci, adx, rsi, atr,
			 factors, sentiment, seen_before, evaluated_at)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			report.RunID, i, res.Symbol, res.Name, res.TotalScore, res.Close,
			res.Plan.EntryLow.String(), res.Plan.EntryHigh.String(),
			res.Plan.StopLoss.String(), res.Plan.TakeProfit.String(),
			strings.Join(res.BullishPatterns, ","), strings.Join(res.BearishPatterns, ","),
			nullFloat(res.CMF), nullFloat(res.CCI), nullFloat(res.ADX), nullFloat(res.RSI), nullFloat(res.ATR),
			string(factors), res.SentimentNote, res.SeenBefore, res.EvaluatedAt.Unix(),
		); err != nil {
			return fmt.Errorf("insert result %s: %w", res.Symbol, err)
		}
	}
	return tx.Commit()
}

// LastRun loads the most recent run with its results in rank order.
func (r *SQLiteRecorder) LastRun(ctx context.Context) (*model.ScanReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		rep               model.ScanReport
		started, finished int64
		skipped           string
	)
	err := r.db.QueryRowContext(ctx, `SELECT run_id, started_at, finished_at, scanned, evaluated, skipped
		FROM scan_runs ORDER BY started_at DESC, rowid DESC LIMIT 1`).
		Scan(&rep.RunID, &started, &finished, &rep.Scanned, &rep.Evaluated, &skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last run: %w", err)
	}
	rep.StartedAt = time.Unix(started, 0)
	rep.FinishedAt = time.Unix(finished, 0)
	if skipped != "" && skipped != "null" {
		if err := json.Unmarshal([]byte(skipped), &rep.Skipped); err != nil {
			return nil, fmt.Errorf("decode skipped: %w", err)
		}
	}

	rows, err := r.db.QueryContext(ctx, `SELECT symbol, name, total_score, close,
		entry_low, entry_high, stop_loss, take_profit, bullish, bearish,
		cmf, cci, adx, rsi, atr, factors, sentiment, seen_before, evaluated_at
		FROM scan_results WHERE run_id = ? ORDER BY rank`, rep.RunID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			res                    model.ScanResult
			lo, hi, stop, target   string
			bullish, bearish, fact string
			evaluated              int64
			ind                    [5]sql.NullFloat64
		)
		if err := rows.Scan(&res.Symbol, &res.Name, &res.TotalScore, &res.Close,
			&lo, &hi, &stop, &target, &bullish, &bearish,
			&ind[0], &ind[1], &ind[2], &ind[3], &ind[4],
			&fact, &res.SentimentNote, &res.SeenBefore, &evaluated); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		res.Plan = model.TradePlan{
			EntryLow:   parseDecimal(lo),
			EntryHigh:  parseDecimal(hi),
			StopLoss:   parseDecimal(stop),
			TakeProfit: parseDecimal(target),
		}
		res.CMF, res.CCI, res.ADX, res.RSI, res.ATR =
			floatPtr(ind[0]), floatPtr(ind[1]), floatPtr(ind[2]), floatPtr(ind[3]), floatPtr(ind[4])
		res.BullishPatterns = splitList(bullish)
		res.BearishPatterns = splitList(bearish)
		res.EvaluatedAt = time.Unix(evaluated, 0)
		if err := json.Unmarshal([]byte(fact), &res.Factors); err != nil {
			return nil, fmt.Errorf("decode factors %s: %w", res.Symbol, err)
		}
		rep.Published = append(rep.Published, res)
	}
	return &rep, rows.Err()
}

func (r *SQLiteRecorder) LastSeen(ctx context.Context, symbol string) (SeenRecord, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var first, last int64
	rec := SeenRecord{Symbol: symbol}
	err := r.db.QueryRowContext(ctx,
		`SELECT first_seen, last_seen, last_score, times FROM seen_symbols WHERE symbol = ?`, symbol).
		Scan(&first, &last, &rec.LastScore, &rec.TimesShown)
	if errors.Is(err, sql.ErrNoRows) {
		return SeenRecord{}, false, nil
	}
	if err != nil {
		return SeenRecord{}, false, fmt.Errorf("query seen %s: %w", symbol, err)
	}
	rec.FirstSeen = time.Unix(first, 0)
	rec.LastSeen = time.Unix(last, 0)
	return rec, true, nil
}

func (r *SQLiteRecorder) MarkSeen(ctx context.Context, symbol string, at time.Time, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO seen_symbols (symbol, first_seen, last_seen, last_score, times)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(symbol) DO UPDATE SET
			last_seen = excluded.last_seen,
			last_score = excluded.last_score,
			times = seen_symbols.times + 1`,
		symbol, at.Unix(), at.Unix(), score)
	if err != nil {
		return fmt.Errorf("mark seen %s: %w", symbol, err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
