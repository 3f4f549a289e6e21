package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/admission-analytics/admin-api/internal/models"
)

const logColumns = `log_id, created_at, action, user_id, user_email, user_full_name, performed_by, performed_by_email, ip_address, user_agent, details`

// LogRepository reads and appends the activity log table. Rows are never
// updated or deleted here.
type LogRepository struct {
	db *sqlx.DB
}

// NewLogRepository creates a new instance of LogRepository.
func NewLogRepository(db *sqlx.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Insert appends one log entry.
func (r *LogRepository) Insert(ctx context.Context, entry *models.LogEntry) error {
	if entry.LogID == "" {
		entry.LogID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Details == nil {
		entry.Details = models.JSONMap{}
	}

	const query = `INSERT INTO logs
	(log_id, created_at, action, user_id, user_email, user_full_name, performed_by, performed_by_email, ip_address, user_agent, details)
	VALUES (:log_id, :created_at, :action, :user_id, :user_email, :user_full_name, :performed_by, :performed_by_email, :ip_address, :user_agent, :details)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// List returns one page of filtered log entries plus the total match count,
// newest first.
func (r *LogRepository) List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, int, error) {
	baseQuery, args := buildLogQuery(filter)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * models.LogPageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		logColumns, baseQuery, models.LogPageSize, offset)

	var logs []models.LogEntry
	if err := r.db.SelectContext(ctx, &logs, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list logs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count logs: %w", err)
	}

	return logs, total, nil
}

// ListForExport returns the filtered rows without pagination. rowCap bounds
// the result unless exportAll lifts it.
func (r *LogRepository) ListForExport(ctx context.Context, filter models.LogFilter, exportAll bool, rowCap int) ([]models.LogEntry, error) {
	baseQuery, args := buildLogQuery(filter)

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC", logColumns, baseQuery)
	if !exportAll {
		if rowCap <= 0 {
			rowCap = 1000
		}
		query = fmt.Sprintf("%s LIMIT %d", query, rowCap)
	}

	var logs []models.LogEntry
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("export logs: %w", err)
	}
	return logs, nil
}

// Meta returns the distinct actions and performer emails present in the log.
func (r *LogRepository) Meta(ctx context.Context) (*models.LogMeta, error) {
	var actions []string
	const actionsQuery = `SELECT DISTINCT action FROM logs WHERE action IS NOT NULL ORDER BY action`
	if err := r.db.SelectContext(ctx, &actions, actionsQuery); err != nil {
		return nil, fmt.Errorf("distinct actions: %w", err)
	}

	var emails []string
	const emailsQuery = `SELECT DISTINCT performed_by_email FROM logs WHERE performed_by_email IS NOT NULL ORDER BY performed_by_email`
	if err := r.db.SelectContext(ctx, &emails, emailsQuery); err != nil {
		return nil, fmt.Errorf("distinct performer emails: %w", err)
	}

	meta := &models.LogMeta{Actions: make([]string, 0, len(actions)), Users: make([]models.LogMetaUser, 0, len(emails))}
	for _, action := range actions {
		if trimmed := strings.TrimSpace(action); trimmed != "" {
			meta.Actions = append(meta.Actions, trimmed)
		}
	}
	for _, email := range emails {
		if trimmed := strings.TrimSpace(email); trimmed != "" {
			meta.Users = append(meta.Users, models.LogMetaUser{Email: trimmed})
		}
	}
	return meta, nil
}

// buildLogQuery translates the filter into WHERE clauses shared by the
// listing, count and export queries.
func buildLogQuery(filter models.LogFilter) (string, []interface{}) {
	baseQuery := `FROM logs WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Action != "" {
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)+1))
		args = append(args, filter.Action)
	}
	if filter.PerformedByEmail != "" {
		conditions = append(conditions, fmt.Sprintf("performed_by_email ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.PerformedByEmail+"%")
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}
	return baseQuery, args
}
