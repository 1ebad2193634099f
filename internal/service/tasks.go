package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// pageTasks runs the independent sections of a page. A section that fails, panics or overruns its
// timeout keeps its fallback value and is recorded as degraded; siblings always run to completion.
type pageTasks struct {
	ctx     context.Context
	group   errgroup.Group
	timeout time.Duration
	logger  *zap.Logger
	metrics *MetricsService

	mu     sync.Mutex
	failed []string
}

func newPageTasks(ctx context.Context, timeout time.Duration, logger *zap.Logger, metrics *MetricsService) *pageTasks {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &pageTasks{ctx: ctx, timeout: timeout, logger: logger, metrics: metrics}
}

// taskSlot holds a section's outcome: the computed value when ok, otherwise the fallback.
type taskSlot[T any] struct {
	value T
	ok    bool
}

// Value returns the settled value. Only valid after wait.
func (s *taskSlot[T]) Value() T {
	return s.value
}

// OK reports whether the section succeeded.
func (s *taskSlot[T]) OK() bool {
	return s.ok
}

// spawn schedules fn as section name. The returned slot is settled once wait returns.
func spawn[T any](p *pageTasks, name string, fallback T, fn func(context.Context) (T, error)) *taskSlot[T] {
	slot := &taskSlot[T]{value: fallback}
	p.group.Go(func() error {
		value, err := runIsolated(p.ctx, p.timeout, fn)
		if err != nil {
			p.fail(name, err)
			return nil
		}
		slot.value, slot.ok = value, true
		return nil
	})
	return slot
}

// wait blocks until every spawned section settled and returns the degraded section names.
func (p *pageTasks) wait() []string {
	_ = p.group.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	out := append([]string(nil), p.failed...)
	sort.Strings(out)
	return out
}

func (p *pageTasks) fail(name string, err error) {
	p.logger.Warn("dashboard task failed", zap.String("task", name), zap.Error(err))
	p.metrics.RecordTaskFailure(name)
	p.mu.Lock()
	p.failed = append(p.failed, name)
	p.mu.Unlock()
}

func runIsolated[T any](parent context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				done <- result{value: zero, err: fmt.Errorf("task panic: %v", r)}
			}
		}()
		value, err := fn(ctx)
		done <- result{value: value, err: err}
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("task abandoned: %w", ctx.Err())
	}
}
