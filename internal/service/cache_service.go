package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
}

// CacheServiceConfig configures the result cache.
type CacheServiceConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
	Prefix     string
}

// CacheService stores computed pages per viewer. Storage faults are logged and treated as misses.
type CacheService struct {
	repo    CacheRepository
	metrics *MetricsService
	cfg     CacheServiceConfig
	logger  *zap.Logger
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, cfg CacheServiceConfig, logger *zap.Logger) *CacheService {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "dashboard_cache_"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, cfg: cfg, logger: logger}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.cfg.Enabled && s.repo != nil
}

// Key builds the cache key of a page for a viewer. The filter part is a digest of its JSON encoding.
func (s *CacheService) Key(viewer, page, filterJSON string) string {
	sum := sha256.Sum256([]byte(filterJSON))
	return fmt.Sprintf("%s%s:%s:%s", s.prefix(), viewer, page, hex.EncodeToString(sum[:]))
}

// Get loads key into dest and reports whether the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordCacheOperation(false, duration)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	s.metrics.RecordCacheOperation(true, duration)
	return true
}

// Set stores value under key. ttl <= 0 uses the default TTL.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !s.Enabled() {
		return
	}
	if ttl <= 0 {
		ttl = s.cfg.DefaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete clears a single key.
func (s *CacheService) Delete(ctx context.Context, key string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		s.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// ClearViewer removes every cached page of one viewer.
func (s *CacheService) ClearViewer(ctx context.Context, viewer string) (int64, error) {
	return s.invalidate(ctx, fmt.Sprintf("%s%s:*", s.prefix(), viewer))
}

// ClearAll removes every cached page.
func (s *CacheService) ClearAll(ctx context.Context) (int64, error) {
	return s.invalidate(ctx, s.prefix()+"*")
}

func (s *CacheService) invalidate(ctx context.Context, pattern string) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}
	deleted, err := s.repo.DeleteByPattern(ctx, pattern)
	if err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return deleted, err
	}
	return deleted, nil
}

func (s *CacheService) prefix() string {
	if s == nil {
		return ""
	}
	return s.cfg.Prefix
}
