// Package services runs the background maintenance of the board service.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobFunc is one run of a scheduled job.
type JobFunc func(ctx context.Context) error

// Scheduler runs maintenance jobs (health refresh, invite purge) on cron specs.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger

	mu   sync.Mutex
	jobs map[string]cron.EntryID
}

// NewScheduler builds a scheduler whose job runs are bounded by timeout.
// Overlapping runs of the same job are skipped.
func NewScheduler(timeout time.Duration, logger *zap.Logger) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLog := cronLogger{sugar: logger.Named("cron").Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(
				cron.Recover(cronLog),
				cron.SkipIfStillRunning(cronLog),
			),
		),
		timeout: timeout,
		logger:  logger,
		jobs:    map[string]cron.EntryID{},
	}
}

// Add schedules fn under name. spec accepts standard five-field cron
// expressions and descriptors such as "@hourly" or "@every 10s".
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	id, err := s.cron.AddFunc(spec, func() { s.run(name, fn) })
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.jobs[name] = id
	s.mu.Unlock()
	s.logger.Info("job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// RunNow runs a registered job synchronously, outside its schedule.
func (s *Scheduler) RunNow(name string) bool {
	s.mu.Lock()
	id, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.cron.Entry(id).WrappedJob.Run()
	return true
}

// Next returns the next activation time of a job.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// Start launches the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	s.logger.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) run(name string, fn JobFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	if err := fn(ctx); err != nil {
		s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.logger.Debug("scheduled job finished", zap.String("job", name), zap.Duration("took", time.Since(started)))
}

// cronLogger routes cron's own messages (recovered panics, skipped runs) to zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.With(zap.Error(err)).Errorw(msg, keysAndValues...)
}
