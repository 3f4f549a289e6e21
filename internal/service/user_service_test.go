package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/admission-analytics/admin-api/internal/models"
	appErrors "github.com/admission-analytics/admin-api/pkg/errors"
)

type userRepoStub struct {
	users map[string]*models.User

	created *models.User
	updated *models.User
	deleted string
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	user.UserID = "generated-id"
	s.created = user
	return nil
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	s.updated = user
	return nil
}

func (s *userRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return sql.ErrNoRows
	}
	s.deleted = id
	return nil
}

func adminClaims() *models.SessionClaims {
	return &models.SessionClaims{UserID: "admin-id", Email: "admin@example.com", Role: models.RoleAdmin}
}

func seededUser() *models.User {
	return &models.User{
		UserID:    "target-id",
		Names:     "Ana",
		LastName1: "Soto",
		Email:     "ana@example.com",
		Role:      models.RoleUser,
		Status:    models.StatusActive,
	}
}

func TestUserServiceCreate(t *testing.T) {
	repo := &userRepoStub{users: map[string]*models.User{}}
	rec := &recorderStub{}
	svc := NewUserService(repo, rec, nil, zap.NewNop())

	user, err := svc.Create(context.Background(), adminClaims(), CreateUserRequest{
		Names: "Ana", LastName1: "Soto", Email: "ana@example.com",
		Password: "secret123", Role: "manager",
	}, "10.0.0.5", "curl/8.0")
	require.NoError(t, err)
	require.Equal(t, models.RoleManager, user.Role)
	require.Equal(t, models.StatusActive, user.Status)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))

	entry := rec.last(t)
	require.Equal(t, models.ActionUserCreated, entry.Action)
	require.Equal(t, "admin-id", *entry.PerformedBy)
	require.Equal(t, "ana@example.com", *entry.UserEmail)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	existing := seededUser()
	repo := &userRepoStub{users: map[string]*models.User{existing.UserID: existing}}
	rec := &recorderStub{}
	svc := NewUserService(repo, rec, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), adminClaims(), CreateUserRequest{
		Names: "Otra", LastName1: "Persona", Email: existing.Email,
		Password: "secret123", Role: "user",
	}, "", "")
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	require.Equal(t, appErrors.ErrConflict.Code, appErr.Code)

	entry := rec.last(t)
	require.Equal(t, models.ActionUserCreateFailed, entry.Action)
	require.Equal(t, "correo ya registrado", entry.Details["motivo"])
}

func TestUserServiceCreateInvalidRole(t *testing.T) {
	repo := &userRepoStub{users: map[string]*models.User{}}
	svc := NewUserService(repo, &recorderStub{}, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), adminClaims(), CreateUserRequest{
		Names: "Ana", LastName1: "Soto", Email: "ana@example.com",
		Password: "secret123", Role: "superadmin",
	}, "", "")
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestUserServiceUpdateRecordsChanges(t *testing.T) {
	target := seededUser()
	repo := &userRepoStub{users: map[string]*models.User{target.UserID: target}}
	rec := &recorderStub{}
	svc := NewUserService(repo, rec, nil, zap.NewNop())

	role := "manager"
	names := "Ana Maria"
	user, err := svc.Update(context.Background(), adminClaims(), target.UserID, UpdateUserRequest{
		Names: &names, Role: &role,
	}, "10.0.0.5", "curl/8.0")
	require.NoError(t, err)
	require.Equal(t, models.RoleManager, user.Role)
	require.Equal(t, "Ana Maria", user.Names)
	require.NotNil(t, repo.updated)

	entry := rec.last(t)
	require.Equal(t, models.ActionUserUpdated, entry.Action)
	changes, ok := entry.Details["cambios"].(models.JSONMap)
	require.True(t, ok)
	require.Contains(t, changes, "names")
	require.Contains(t, changes, "role")
	require.NotContains(t, changes, "email")
	roleChange, ok := changes["role"].(map[string]string)
	require.True(t, ok)
	require.Equal(t, "user", roleChange["antes"])
	require.Equal(t, "manager", roleChange["despues"])
}

func TestUserServiceUpdateNoChanges(t *testing.T) {
	target := seededUser()
	repo := &userRepoStub{users: map[string]*models.User{target.UserID: target}}
	rec := &recorderStub{}
	svc := NewUserService(repo, rec, nil, zap.NewNop())

	sameNames := target.Names
	_, err := svc.Update(context.Background(), adminClaims(), target.UserID, UpdateUserRequest{Names: &sameNames}, "", "")
	require.NoError(t, err)
	require.Nil(t, repo.updated)
	require.Empty(t, rec.entries)
}

func TestUserServiceUpdateEmailConflict(t *testing.T) {
	target := seededUser()
	other := &models.User{UserID: "other-id", Email: "taken@example.com"}
	repo := &userRepoStub{users: map[string]*models.User{target.UserID: target, other.UserID: other}}
	svc := NewUserService(repo, &recorderStub{}, nil, zap.NewNop())

	email := other.Email
	_, err := svc.Update(context.Background(), adminClaims(), target.UserID, UpdateUserRequest{Email: &email}, "", "")
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	require.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestUserServiceDelete(t *testing.T) {
	target := seededUser()
	repo := &userRepoStub{users: map[string]*models.User{target.UserID: target}}
	rec := &recorderStub{}
	svc := NewUserService(repo, rec, nil, zap.NewNop())

	err := svc.Delete(context.Background(), adminClaims(), target.UserID, "10.0.0.5", "curl/8.0")
	require.NoError(t, err)
	require.Equal(t, target.UserID, repo.deleted)

	entry := rec.last(t)
	require.Equal(t, models.ActionUserDeleted, entry.Action)
}

func TestUserServiceDeleteSelfForbidden(t *testing.T) {
	claims := adminClaims()
	repo := &userRepoStub{users: map[string]*models.User{}}
	svc := NewUserService(repo, &recorderStub{}, nil, zap.NewNop())

	err := svc.Delete(context.Background(), claims, claims.UserID, "", "")
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestUserServiceGetSelfOrAdmin(t *testing.T) {
	target := seededUser()
	repo := &userRepoStub{users: map[string]*models.User{target.UserID: target}}
	svc := NewUserService(repo, &recorderStub{}, nil, zap.NewNop())

	self := &models.SessionClaims{UserID: target.UserID, Role: models.RoleUser}
	user, err := svc.Get(context.Background(), self, target.UserID)
	require.NoError(t, err)
	require.Equal(t, target.Email, user.Email)

	stranger := &models.SessionClaims{UserID: "someone-else", Role: models.RoleUser}
	_, err = svc.Get(context.Background(), stranger, target.UserID)
	require.Error(t, err)

	_, err = svc.Get(context.Background(), adminClaims(), target.UserID)
	require.NoError(t, err)
}
