package recorder

import (
	"context"
	"time"

	"AlphaScanner/internal/model"
)

// Recorder persists scan runs for later review.
type Recorder interface {
	RecordRun(ctx context.Context, report *model.ScanReport) error
	// LastRun returns the most recent recorded run, or nil when none exists.
	LastRun(ctx context.Context) (*model.ScanReport, error)
	Close() error
}

// SeenRecord is what the history store knows about a previously published symbol.
type SeenRecord struct {
	Symbol     string
	FirstSeen  time.Time
	LastSeen   time.Time
	LastScore  int
	TimesShown int
}

// History is the cross-run "seen before" store.
type History interface {
	LastSeen(ctx context.Context, symbol string) (SeenRecord, bool, error)
	MarkSeen(ctx context.Context, symbol string, at time.Time, score int) error
}
