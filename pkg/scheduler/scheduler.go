// Package scheduler runs periodic maintenance jobs on cron specs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobFunc is a unit of periodic work. It receives a context bounded by the job timeout.
type JobFunc func(ctx context.Context) error

// Scheduler wraps a cron engine with logging and per-run timeouts.
type Scheduler struct {
	engine  *cron.Cron
	logger  *zap.Logger
	timeout time.Duration
}

// New builds a scheduler evaluating specs in the given location. Overlapping runs of the same job
// are skipped.
func New(loc *time.Location, timeout time.Duration, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		engine:  cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger,
		timeout: timeout,
	}
}

// Register adds a named job on the standard five field spec.
func (s *Scheduler) Register(name, spec string, job JobFunc) error {
	_, err := s.engine.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}
	s.logger.Info("scheduled job registered", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Start begins evaluating schedules in the background.
func (s *Scheduler) Start() {
	s.engine.Start()
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.engine.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) run(name string, job JobFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled job panicked", zap.String("job", name), zap.Any("panic", r))
		}
	}()
	if err := job(ctx); err != nil {
		s.logger.Warn("scheduled job failed", zap.String("job", name), zap.Duration("duration", time.Since(start)), zap.Error(err))
		return
	}
	s.logger.Info("scheduled job completed", zap.String("job", name), zap.Duration("duration", time.Since(start)))
}
