package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sales-dashboard-api/internal/dto"
	"github.com/noah-isme/sales-dashboard-api/internal/models"
	"github.com/noah-isme/sales-dashboard-api/pkg/jobs"
)

const warmupJobType = "dashboard_warmup"

type summaryComposer interface {
	Summary(ctx context.Context, session models.Session, req PageRequest) (*dto.DashboardSummary, bool, error)
}

// WarmupConfig sizes the warm-up queue.
type WarmupConfig struct {
	Workers    int
	BufferSize int
	Retries    int
	RetryDelay time.Duration
}

// WarmupService precomputes a viewer's dashboard summary right after login.
type WarmupService struct {
	dashboard summaryComposer
	queue     *jobs.Queue
	logger    *zap.Logger
}

// NewWarmupService constructs a WarmupService with its own job queue.
func NewWarmupService(dashboard summaryComposer, cfg WarmupConfig, logger *zap.Logger) *WarmupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	svc := &WarmupService{dashboard: dashboard, logger: logger}
	svc.queue = jobs.NewQueue("dashboard-warmup", svc.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return svc
}

// Start launches the queue workers.
func (s *WarmupService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *WarmupService) Stop() {
	s.queue.Stop()
}

// LoggedIn queues a warm-up for the viewer. At most one job per viewer is pending.
func (s *WarmupService) LoggedIn(session models.Session) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Key:     strings.ToLower(session.Email),
		Type:    warmupJobType,
		Payload: session,
	})
	switch {
	case err == nil:
	case errors.Is(err, jobs.ErrDuplicate):
		s.logger.Debug("warm-up already pending", zap.String("email", session.Email))
	default:
		s.logger.Warn("failed to queue warm-up", zap.String("email", session.Email), zap.Error(err))
	}
}

func (s *WarmupService) handle(ctx context.Context, job jobs.Job) error {
	session, ok := job.Payload.(models.Session)
	if !ok {
		return fmt.Errorf("unexpected warm-up payload %T", job.Payload)
	}
	summary, _, err := s.dashboard.Summary(ctx, session, PageRequest{})
	if err != nil {
		return err
	}
	if len(summary.Degraded) > 0 {
		return fmt.Errorf("summary degraded: %s", strings.Join(summary.Degraded, ","))
	}
	return nil
}
