package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/admission-analytics/admin-api/internal/models"
)

const visitColumns = `id_visita, rbd, nom_col, region, comuna, nom_com, inscritos, fecha_visita, created_at`

// VisitRepository reads the school-visit table.
type VisitRepository struct {
	db *sqlx.DB
}

// NewVisitRepository creates a new instance of VisitRepository.
func NewVisitRepository(db *sqlx.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

// List returns one page of filtered visits plus the total match count,
// newest visit first.
func (r *VisitRepository) List(ctx context.Context, filter models.VisitFilter) ([]models.Visit, int, error) {
	baseQuery := `FROM visitas_col WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.RBD > 0 {
		conditions = append(conditions, fmt.Sprintf("rbd = $%d", len(args)+1))
		args = append(args, filter.RBD)
	}
	if filter.Region != "" {
		conditions = append(conditions, fmt.Sprintf("region = $%d", len(args)+1))
		args = append(args, filter.Region)
	}
	if filter.Comuna > 0 {
		conditions = append(conditions, fmt.Sprintf("comuna = $%d", len(args)+1))
		args = append(args, filter.Comuna)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("fecha_visita >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("fecha_visita < $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY fecha_visita DESC, created_at DESC LIMIT %d OFFSET %d",
		visitColumns, baseQuery, limit, offset)

	var visits []models.Visit
	if err := r.db.SelectContext(ctx, &visits, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list visits: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count visits: %w", err)
	}

	return visits, total, nil
}

// FindByID returns a single visit.
func (r *VisitRepository) FindByID(ctx context.Context, id int64) (*models.Visit, error) {
	query := fmt.Sprintf(`SELECT %s FROM visitas_col WHERE id_visita = $1 LIMIT 1`, visitColumns)
	var visit models.Visit
	if err := r.db.GetContext(ctx, &visit, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find visit by id: %w", err)
	}
	return &visit, nil
}
