package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/admission-analytics/admin-api/internal/audit"
	"github.com/admission-analytics/admin-api/internal/models"
	appErrors "github.com/admission-analytics/admin-api/pkg/errors"
)

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// CreateUserRequest is the payload for registering a new account.
type CreateUserRequest struct {
	Names     string  `json:"names" validate:"required,min=2,max=100"`
	LastName1 string  `json:"last_name_1" validate:"required,min=2,max=100"`
	LastName2 *string `json:"last_name_2" validate:"omitempty,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6,max=128"`
	Role      string  `json:"role" validate:"required,oneof=user manager admin"`
	Status    string  `json:"status" validate:"omitempty,oneof=active inactive pending"`
	AreaID    *int64  `json:"area_id"`
	CampusID  *int64  `json:"campus_id"`
}

// UpdateUserRequest carries the editable profile fields. Nil fields are
// left untouched.
type UpdateUserRequest struct {
	Names     *string `json:"names" validate:"omitempty,min=2,max=100"`
	LastName1 *string `json:"last_name_1" validate:"omitempty,min=2,max=100"`
	LastName2 *string `json:"last_name_2" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Role      *string `json:"role" validate:"omitempty,oneof=user manager admin"`
	Status    *string `json:"status" validate:"omitempty,oneof=active inactive pending"`
	AreaID    *int64  `json:"area_id"`
	CampusID  *int64  `json:"campus_id"`
}

// UserService manages account administration.
type UserService struct {
	repo      userRepository
	recorder  auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, recorder auditRecorder, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, recorder: recorder, validator: validate, logger: logger}
}

// Get returns a user profile. Non-admin callers may only read themselves.
func (s *UserService) Get(ctx context.Context, claims *models.SessionClaims, id string) (*models.User, error) {
	if claims.Role != models.RoleAdmin && claims.UserID != id {
		return nil, appErrors.ErrForbidden
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	return user, nil
}

// Create registers a new account and records the outcome in the activity log.
func (s *UserService) Create(ctx context.Context, claims *models.SessionClaims, req CreateUserRequest, ip, userAgent string) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	if existing, err := s.repo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		s.recordUserEvent(ctx, claims, models.ActionUserCreateFailed, nil, &req.Email, "", ip, userAgent,
			models.JSONMap{"motivo": "correo ya registrado", "email": req.Email})
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	status := models.StatusActive
	if req.Status != "" {
		status = models.UserStatus(req.Status)
	}
	user := &models.User{
		Names:        req.Names,
		LastName1:    req.LastName1,
		LastName2:    req.LastName2,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.UserRole(req.Role),
		Status:       status,
		AreaID:       req.AreaID,
		CampusID:     req.CampusID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		s.recordUserEvent(ctx, claims, models.ActionUserCreateFailed, nil, &req.Email, "", ip, userAgent,
			models.JSONMap{"motivo": "error de base de datos", "email": req.Email})
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.recordUserEvent(ctx, claims, models.ActionUserCreated, &user.UserID, &user.Email, user.FullName(), ip, userAgent,
		models.JSONMap{"rol": string(user.Role), "estado": string(user.Status)})
	return user, nil
}

// Update applies the provided fields and logs the before/after values of
// everything that changed.
func (s *UserService) Update(ctx context.Context, claims *models.SessionClaims, id string, req UpdateUserRequest, ip, userAgent string) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	changes := models.JSONMap{}
	applyString(changes, "names", &user.Names, req.Names)
	applyString(changes, "last_name_1", &user.LastName1, req.LastName1)
	applyOptString(changes, "last_name_2", &user.LastName2, req.LastName2)
	if req.Email != nil && *req.Email != user.Email {
		if existing, ferr := s.repo.FindByEmail(ctx, *req.Email); ferr == nil && existing != nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		} else if ferr != nil && !errors.Is(ferr, sql.ErrNoRows) {
			return nil, appErrors.Wrap(ferr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
		}
		changes["email"] = fieldChange(user.Email, *req.Email)
		user.Email = *req.Email
	}
	if req.Role != nil && models.UserRole(*req.Role) != user.Role {
		changes["role"] = fieldChange(string(user.Role), *req.Role)
		user.Role = models.UserRole(*req.Role)
	}
	if req.Status != nil && models.UserStatus(*req.Status) != user.Status {
		changes["status"] = fieldChange(string(user.Status), *req.Status)
		user.Status = models.UserStatus(*req.Status)
	}
	applyOptInt(changes, "area_id", &user.AreaID, req.AreaID)
	applyOptInt(changes, "campus_id", &user.CampusID, req.CampusID)

	if len(changes) == 0 {
		return user, nil
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	s.recordUserEvent(ctx, claims, models.ActionUserUpdated, &user.UserID, &user.Email, user.FullName(), ip, userAgent,
		models.JSONMap{"cambios": changes})
	return user, nil
}

// Delete removes an account and records who did it.
func (s *UserService) Delete(ctx context.Context, claims *models.SessionClaims, id, ip, userAgent string) error {
	if claims.UserID == id {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete own account")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}

	s.recordUserEvent(ctx, claims, models.ActionUserDeleted, &user.UserID, &user.Email, user.FullName(), ip, userAgent,
		models.JSONMap{"rol": string(user.Role)})
	return nil
}

func (s *UserService) recordUserEvent(ctx context.Context, claims *models.SessionClaims, action string, targetID, targetEmail *string, targetName, ip, userAgent string, details models.JSONMap) {
	entry := models.LogEntry{
		Action:       action,
		UserID:       targetID,
		UserEmail:    targetEmail,
		UserFullName: audit.NullableString(targetName),
		IPAddress:    audit.NullableString(ip),
		UserAgent:    audit.NullableString(userAgent),
		Details:      details,
	}
	if claims != nil {
		entry.PerformedBy = &claims.UserID
		entry.PerformedByEmail = &claims.Email
	}
	s.recorder.Record(ctx, entry)
}

func fieldChange(before, after string) map[string]string {
	return map[string]string{"antes": before, "despues": after}
}

func applyString(changes models.JSONMap, field string, dst *string, src *string) {
	if dst == nil || src == nil || *src == *dst {
		return
	}
	changes[field] = fieldChange(*dst, *src)
	*dst = *src
}

func applyOptString(changes models.JSONMap, field string, dst **string, src *string) {
	if src == nil {
		return
	}
	before := ""
	if *dst != nil {
		before = **dst
	}
	if before == *src {
		return
	}
	changes[field] = fieldChange(before, *src)
	value := *src
	*dst = &value
}

func applyOptInt(changes models.JSONMap, field string, dst **int64, src *int64) {
	if src == nil {
		return
	}
	if *dst != nil && **dst == *src {
		return
	}
	var before interface{}
	if *dst != nil {
		before = **dst
	}
	changes[field] = map[string]interface{}{"antes": before, "despues": *src}
	value := *src
	*dst = &value
}
