package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job represents a queued background task. Jobs sharing a non-empty Key are coalesced: while one is
// pending or running, further enqueues with the same key are dropped.
type Job struct {
	ID       string
	Key      string
	Type     string
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
}

// ErrDuplicate is returned by Enqueue when a job with the same key is already in flight.
var ErrDuplicate = errors.New("job with same key already queued")

// Handler processes a job.
type Handler func(context.Context, Job) error

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Queue runs jobs on a fixed set of goroutines. A failed job is retried on the same worker with a
// linear backoff, so its key stays claimed until the final attempt. Queued jobs are lost on shutdown.
type Queue struct {
	name    string
	handler Handler
	cfg     QueueConfig
	logger  *zap.Logger

	jobs chan Job

	mu      sync.Mutex
	claimed map[string]string
	ctx     context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup
	started bool
}

// NewQueue builds a queue named for logging. Zero config values fall back to one worker, a buffer
// of four jobs per worker, three retries and a one second base delay.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{
		name:    name,
		handler: handler,
		cfg:     cfg,
		logger:  logger.With(zap.String("queue", name)),
		jobs:    make(chan Job, cfg.BufferSize),
		claimed: make(map[string]string),
	}
}

// Start launches the workers. Later calls are no-ops.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	q.started = true
	for i := 0; i < q.cfg.Workers; i++ {
		q.running.Add(1)
		go q.work()
	}
	q.logger.Info("queue started", zap.Int("workers", q.cfg.Workers))
}

// Stop cancels in-flight jobs and waits for the workers to return.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.running.Wait()
	q.logger.Info("queue stopped")
}

// Enqueue hands a job to the workers without blocking. ErrDuplicate reports a keyed job that is
// already claimed; a full buffer or a stopped queue is an error.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return fmt.Errorf("queue %s not started", q.name)
	}
	if job.Key != "" {
		if _, taken := q.claimed[job.Key]; taken {
			q.mu.Unlock()
			return ErrDuplicate
		}
		q.claimed[job.Key] = job.ID
	}
	ctx := q.ctx
	q.mu.Unlock()

	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}
	select {
	case <-ctx.Done():
		q.unclaim(job)
		return fmt.Errorf("queue %s stopped: %w", q.name, ctx.Err())
	case q.jobs <- job:
		return nil
	default:
		q.unclaim(job)
		return fmt.Errorf("queue %s full", q.name)
	}
}

// Pending reports how many keyed jobs are queued or running.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.claimed)
}

func (q *Queue) unclaim(job Job) {
	if job.Key == "" {
		return
	}
	q.mu.Lock()
	if q.claimed[job.Key] == job.ID {
		delete(q.claimed, job.Key)
	}
	q.mu.Unlock()
}

func (q *Queue) work() {
	defer q.running.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			q.process(job)
			q.unclaim(job)
		}
	}
}

func (q *Queue) process(job Job) {
	for {
		err := q.invoke(job)
		if err == nil {
			return
		}
		fields := []zap.Field{zap.String("job_id", job.ID), zap.String("type", job.Type), zap.Int("attempt", job.Attempt), zap.Error(err)}
		if job.Attempt >= q.cfg.MaxRetries {
			q.logger.Error("job exceeded retries", fields...)
			return
		}
		q.logger.Warn("job failed, retrying", fields...)
		job.Attempt++

		timer := time.NewTimer(q.cfg.RetryDelay * time.Duration(job.Attempt))
		select {
		case <-q.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (q *Queue) invoke(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return q.handler(q.ctx, job)
}
