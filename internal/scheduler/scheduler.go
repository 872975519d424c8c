package scheduler

import (
	"context"
	"fmt"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/format"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/portfolio"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/recorder"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic refresh cycle.
type Scheduler struct {
	Cron     *cron.Cron
	Store    *portfolio.Store
	Recorder recorder.Recorder
	Interval model.Interval
	Ctx      context.Context
	Log      *zap.SugaredLogger
}

// NewScheduler creates a Scheduler refreshing at the store's default interval.
func NewScheduler(ctx context.Context, store *portfolio.Store, rec recorder.Recorder, interval model.Interval, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Store:    store,
		Recorder: rec,
		Interval: interval,
		Ctx:      ctx,
		Log:      log,
	}
}

// Register wires the refresh task onto the given cron spec.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Infow("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.Log.Infow("scheduler stopped")
}

// RunNow executes the refresh task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	report := s.Store.UpdateAll(s.Ctx, s.Interval, false)
	if err := s.Recorder.RecordRefresh(report); err != nil {
		s.Log.Errorw("record refresh batch", "batch", report.ID, "error", err)
	}

	summary := s.Store.Summary()
	s.Log.Infow("portfolio refreshed",
		"batch", report.ID,
		"total_value", format.Dollar(summary.TotalValue),
		"symbols", len(summary.Symbols))
	if err := s.Recorder.RecordSummary(summary); err != nil {
		s.Log.Errorw("record summary snapshot", "error", err)
	}
}
