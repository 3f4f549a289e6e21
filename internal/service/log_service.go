package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/admission-analytics/admin-api/internal/models"
	appErrors "github.com/admission-analytics/admin-api/pkg/errors"
)

type logRepository interface {
	List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, int, error)
	Meta(ctx context.Context) (*models.LogMeta, error)
}

type metaCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

const metaCacheKey = "logs:meta"

// LogService serves the activity-log listing and its filter metadata.
type LogService struct {
	repo     logRepository
	cache    metaCache
	cacheTTL time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewLogService creates an instance of LogService. cache and metrics may be
// nil, which disables metadata caching and instrumentation respectively.
func NewLogService(repo logRepository, cache metaCache, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *LogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogService{repo: repo, cache: cache, cacheTTL: cacheTTL, metrics: metrics, logger: logger}
}

// List returns one page of filtered entries. totalPages is never below 1, so
// an empty result still reports page 1 of 1; pages past the end come back
// empty with correct totals.
func (s *LogService) List(ctx context.Context, filter models.LogFilter) (*models.LogPage, error) {
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list logs")
	}
	if logs == nil {
		logs = []models.LogEntry{}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}

	totalPages := (total + models.LogPageSize - 1) / models.LogPageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return &models.LogPage{
		Logs:        logs,
		TotalPages:  totalPages,
		CurrentPage: page,
		TotalLogs:   total,
	}, nil
}

// Meta returns the distinct actions and performer emails feeding the filter
// dropdowns, served from cache when available. Cache failures fall through to
// the database.
func (s *LogService) Meta(ctx context.Context) (*models.LogMeta, error) {
	if s.cache != nil {
		var cached models.LogMeta
		err := s.cache.Get(ctx, metaCacheKey, &cached)
		if err == nil {
			s.metrics.RecordCacheLookup(true)
			return &cached, nil
		}
		s.metrics.RecordCacheLookup(false)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("log meta cache read failed", zap.Error(err))
		}
	}

	meta, err := s.repo.Meta(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load log metadata")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, metaCacheKey, meta, s.cacheTTL); err != nil {
			s.logger.Warn("log meta cache write failed", zap.Error(err))
		}
	}

	return meta, nil
}
