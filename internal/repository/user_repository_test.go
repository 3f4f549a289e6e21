package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admission-analytics/admin-api/internal/models"
)

func userRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"user_id", "names", "last_name_1", "last_name_2", "email", "password_hash", "role", "status", "area_id", "campus_id", "created_at", "updated_at"}).
		AddRow("u1", "Ana", "Rojas", nil, "ana@school.cl", "hash", string(models.RoleAdmin), string(models.StatusActive), nil, nil, now, now)
}

func TestUserFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM user_profiles WHERE email = $1 LIMIT 1")).
		WithArgs("ana@school.cl").
		WillReturnRows(userRows())

	user, err := repo.FindByEmail(context.Background(), "ana@school.cl")
	require.NoError(t, err)
	assert.Equal(t, "ana@school.cl", user.Email)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO user_profiles").WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{Names: "Ana", LastName1: "Rojas", Email: "ana@school.cl", Role: models.RoleUser, Status: models.StatusActive}
	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NotEmpty(t, user.UserID)
	assert.False(t, user.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDeleteMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_profiles WHERE user_id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
