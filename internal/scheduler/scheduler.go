package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"AlphaScanner/internal/exporter"
	"AlphaScanner/internal/model"
	"AlphaScanner/internal/notifier"
	"AlphaScanner/internal/recorder"
	"AlphaScanner/internal/scanner"
)

// ErrScanRunning is returned by RunNow while another scan is in flight.
var ErrScanRunning = errors.New("scan already running")

// Notifier delivers report text.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the scan pipeline on a cron schedule and on demand.
type Scheduler struct {
	Cron     *cron.Cron
	Scanner  *scanner.Scanner
	Universe func() ([]model.Symbol, error)
	Recorder recorder.Recorder
	// Saver and ExportDir are optional; nil Saver disables export.
	Saver     exporter.Saver
	ExportDir string
	// Notifier is optional; reports are only logged without one.
	Notifier Notifier
	TopN     int
	Ctx      context.Context

	running atomic.Bool
	mu      sync.Mutex
	last    *model.ScanReport
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, universe func() ([]model.Symbol, error), rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Scanner:  sc,
		Universe: universe,
		Recorder: rec,
		TopN:     10,
		Ctx:      ctx,
	}
}

// Register adds the daily scan task.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) scanTask() {
	if _, err := s.RunNow(); err != nil {
		log.Error().Err(err).Msg("scheduled scan failed")
	}
}

// RunNow executes one scan immediately: scan, record, export, notify.
func (s *Scheduler) RunNow() (*model.ScanReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrScanRunning
	}
	defer s.running.Store(false)

	symbols, err := s.Universe()
	if err != nil {
		s.trySend(fmt.Sprintf("❌ 股票池加载失败: %v", err))
		return nil, fmt.Errorf("load universe: %w", err)
	}

	report, err := s.Scanner.Run(s.Ctx, symbols)
	if err != nil {
		return report, fmt.Errorf("scan: %w", err)
	}

	if err := s.Recorder.RecordRun(s.Ctx, report); err != nil {
		log.Error().Err(err).Str("run_id", report.RunID).Msg("record scan run")
	}
	if s.Saver != nil {
		if err := s.export(report); err != nil {
			log.Error().Err(err).Str("run_id", report.RunID).Msg("export scan run")
		}
	}

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	s.trySend(notifier.FormatScanReport(report, s.TopN))
	return report, nil
}

func (s *Scheduler) export(report *model.ScanReport) error {
	if err := os.MkdirAll(s.ExportDir, 0o755); err != nil {
		return err
	}
	path := exporter.FileName(s.ExportDir, report, s.Saver)
	if err := s.Saver.Save(report, path); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("rows", len(report.Published)).Msg("scan exported")
	return nil
}

// LastReport returns the latest report from this process, falling back to the recorder.
func (s *Scheduler) LastReport(ctx context.Context) (*model.ScanReport, error) {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	if last != nil {
		return last, nil
	}
	return s.Recorder.LastRun(ctx)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/scan", "立即扫描":
		if _, err := s.RunNow(); err != nil {
			if errors.Is(err, ErrScanRunning) {
				return "⏳ 扫描进行中，请稍后"
			}
			return fmt.Sprintf("❌ 扫描失败: %v", err)
		}
		return ""
	case "/last", "最近结果":
		rep, err := s.LastReport(ctx)
		if err != nil {
			return fmt.Sprintf("❌ 读取记录失败: %v", err)
		}
		if rep == nil {
			return "暂无扫描记录"
		}
		return notifier.FormatScanReport(rep, s.TopN)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Info().Msg(text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
