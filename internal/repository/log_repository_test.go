package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admission-analytics/admin-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func logRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"log_id", "created_at", "action", "user_id", "user_email", "user_full_name", "performed_by", "performed_by_email", "ip_address", "user_agent", "details"}).
		AddRow("log-1", now, models.ActionLogin, nil, "ana@school.cl", "Ana Rojas", nil, "ana@school.cl", "203.0.113.7", "Mozilla/5.0", []byte(`{"metodo":"credenciales"}`))
}

func TestLogListNoFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+logColumns+" FROM logs WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(logRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM logs WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))

	logs, total, err := repo.List(context.Background(), models.LogFilter{Page: 1})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, 41, total)
	require.NotNil(t, logs[0].Details)
	assert.Equal(t, "credenciales", logs[0].Details["metodo"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogListAllFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLogRepository(db)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	filter := models.LogFilter{
		Action:           models.ActionLogin,
		PerformedByEmail: "ana",
		DateFrom:         &from,
		DateTo:           &to,
		Page:             3,
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+logColumns+" FROM logs WHERE 1=1 AND action = $1 AND performed_by_email ILIKE $2 AND created_at >= $3 AND created_at < $4 ORDER BY created_at DESC LIMIT 20 OFFSET 40")).
		WithArgs(models.ActionLogin, "%ana%", from, to).
		WillReturnRows(logRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM logs WHERE 1=1 AND action = $1 AND performed_by_email ILIKE $2 AND created_at >= $3 AND created_at < $4")).
		WithArgs(models.ActionLogin, "%ana%", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogListForExportCapped(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+logColumns+" FROM logs WHERE 1=1 ORDER BY created_at DESC LIMIT 1000")).
		WillReturnRows(logRows())

	logs, err := repo.ListForExport(context.Background(), models.LogFilter{}, false, 1000)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogListForExportAllLiftsCap(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLogRepository(db)

	mock.ExpectQuery("SELECT .+ FROM logs WHERE 1=1 ORDER BY created_at DESC$").
		WillReturnRows(logRows())

	_, err := repo.ListForExport(context.Background(), models.LogFilter{}, true, 1000)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogInsertDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLogRepository(db)

	mock.ExpectExec("INSERT INTO logs").WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.LogEntry{Action: models.ActionLogout}
	err := repo.Insert(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.LogID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NotNil(t, entry.Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogMetaTrimsAndDropsEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT action FROM logs WHERE action IS NOT NULL ORDER BY action")).
		WillReturnRows(sqlmock.NewRows([]string{"action"}).AddRow("  Inicio de sesión ").AddRow("   ").AddRow(models.ActionLogout))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT performed_by_email FROM logs WHERE performed_by_email IS NOT NULL ORDER BY performed_by_email")).
		WillReturnRows(sqlmock.NewRows([]string{"performed_by_email"}).AddRow("ana@school.cl ").AddRow(""))

	meta, err := repo.Meta(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Inicio de sesión", models.ActionLogout}, meta.Actions)
	assert.Equal(t, []models.LogMetaUser{{Email: "ana@school.cl"}}, meta.Users)
	assert.NoError(t, mock.ExpectationsWereMet())
}
