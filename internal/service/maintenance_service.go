package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type expiringStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// MaintenanceService purges spent verification codes and refresh tokens.
type MaintenanceService struct {
	codes    expiringStore
	sessions expiringStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewMaintenanceService constructs a MaintenanceService.
func NewMaintenanceService(codes, sessions expiringStore, logger *zap.Logger) *MaintenanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceService{codes: codes, sessions: sessions, logger: logger, now: time.Now}
}

// PurgeExpired deletes used or expired codes and revoked or expired refresh tokens. Both stores are
// attempted even when the first fails.
func (s *MaintenanceService) PurgeExpired(ctx context.Context) error {
	now := s.now().UTC()
	codes, codeErr := s.codes.DeleteExpired(ctx, now)
	tokens, tokenErr := s.sessions.DeleteExpired(ctx, now)
	if err := errors.Join(codeErr, tokenErr); err != nil {
		return err
	}
	if codes > 0 || tokens > 0 {
		s.logger.Info("purged expired auth records", zap.Int64("verification_codes", codes), zap.Int64("refresh_tokens", tokens))
	}
	return nil
}
