package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/admission-analytics/admin-api/internal/models"
	appErrors "github.com/admission-analytics/admin-api/pkg/errors"
)

type visitRepository interface {
	List(ctx context.Context, filter models.VisitFilter) ([]models.Visit, int, error)
	FindByID(ctx context.Context, id int64) (*models.Visit, error)
}

// VisitService exposes school visit queries.
type VisitService struct {
	repo   visitRepository
	logger *zap.Logger
}

// NewVisitService constructs a VisitService instance.
func NewVisitService(repo visitRepository, logger *zap.Logger) *VisitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisitService{repo: repo, logger: logger}
}

// List returns a page of visits matching the filter.
func (s *VisitService) List(ctx context.Context, filter models.VisitFilter) (*models.VisitPage, error) {
	visits, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list visits", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list visits")
	}
	if visits == nil {
		visits = []models.Visit{}
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	if totalPages < 1 {
		totalPages = 1
	}
	return &models.VisitPage{
		Success:      true,
		Visitas:      visits,
		TotalVisitas: total,
		TotalPages:   totalPages,
		CurrentPage:  filter.Page,
	}, nil
}

// Get returns one visit by its identifier.
func (s *VisitService) Get(ctx context.Context, id int64) (*models.Visit, error) {
	visit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "visit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch visit")
	}
	return visit, nil
}
