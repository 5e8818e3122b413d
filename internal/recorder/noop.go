package recorder

import (
	"context"

	"AlphaScanner/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ context.Context, _ *model.ScanReport) error { return nil }
func (n *NoopRecorder) LastRun(_ context.Context) (*model.ScanReport, error)    { return nil, nil }
func (n *NoopRecorder) Close() error                                            { return nil }
