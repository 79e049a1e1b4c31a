package scheduler

import (
	"context"
	"fmt"
	"staybook/pkg/logger"
	"staybook/pkg/model"

	"github.com/robfig/cron/v3"
)

// BatchSyncer runs one import pass over every active calendar.
type BatchSyncer interface {
	SyncAll(ctx context.Context) ([]model.CalendarSyncSummary, error)
}

// Scheduler runs the batch import on a cron schedule. A run that is still
// going when the next one fires causes that tick to be skipped.
type Scheduler struct {
	cron   *cron.Cron
	syncer BatchSyncer
	log    *logger.Logger
	ctx    context.Context
}

func New(schedule string, syncer BatchSyncer, log *logger.Logger) (*Scheduler, error) {
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s := &Scheduler{cron: c, syncer: syncer, log: log, ctx: context.Background()}
	if _, err := c.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the schedule until ctx is cancelled, then waits for a running
// batch to finish. Batches see ctx and stop between calendars once it ends.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	s.log.Info("Calendar sync scheduler started", "entries", len(s.cron.Entries()))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info("Calendar sync scheduler stopped")
}

// RunNow runs one batch synchronously, outside the schedule.
func (s *Scheduler) RunNow() {
	s.run()
}

func (s *Scheduler) run() {
	summaries, err := s.syncer.SyncAll(s.ctx)
	if err != nil {
		s.log.Error("Scheduled calendar sync failed", "error", err)
		return
	}

	result := model.NewSyncAllResult(summaries)
	s.log.Info("Scheduled calendar sync completed",
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
}

// cronLogger adapts the service logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
