package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/admission-analytics/admin-api/internal/audit"
	"github.com/admission-analytics/admin-api/internal/models"
	appErrors "github.com/admission-analytics/admin-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
}

type auditRecorder interface {
	Record(ctx context.Context, entry models.LogEntry)
}

// AuthConfig defines configuration for session issuance.
type AuthConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// AuthService provides credential login, logout and password change.
type AuthService struct {
	repo      authUserRepository
	recorder  auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, recorder auditRecorder, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, recorder: recorder, validator: validate, logger: logger, config: config}
}

// Login authenticates a user and returns the session token to be written
// into the cookie. Failed attempts are audit-logged with their motive.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.UserInfo, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.recordFailedLogin(ctx, req, "usuario no encontrado")
			return nil, "", appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if user.Status != models.StatusActive {
		s.recordFailedLogin(ctx, req, "cuenta inactiva")
		return nil, "", appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedLogin(ctx, req, "credenciales incorrectas")
		return nil, "", appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	token, err := s.generateSessionToken(user)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	s.recorder.Record(ctx, models.LogEntry{
		Action:           models.ActionLogin,
		UserID:           &user.UserID,
		UserEmail:        &user.Email,
		UserFullName:     audit.NullableString(user.FullName()),
		PerformedBy:      &user.UserID,
		PerformedByEmail: &user.Email,
		IPAddress:        audit.NullableString(req.IP),
		UserAgent:        audit.NullableString(req.UserAgent),
		Details:          models.JSONMap{"metodo": "credenciales"},
	})

	info := &models.UserInfo{ID: user.UserID, Email: user.Email, FullName: user.FullName(), Role: user.Role}
	return info, token, nil
}

// Logout records the session termination. Clearing the cookie is the
// handler's job; there is no server-side session state to revoke.
func (s *AuthService) Logout(ctx context.Context, claims *models.SessionClaims, ip, userAgent string) {
	if claims == nil {
		return
	}
	s.recorder.Record(ctx, models.LogEntry{
		Action:           models.ActionLogout,
		UserID:           &claims.UserID,
		UserEmail:        &claims.Email,
		UserFullName:     audit.NullableString(claims.FullName),
		PerformedBy:      &claims.UserID,
		PerformedByEmail: &claims.Email,
		IPAddress:        audit.NullableString(ip),
		UserAgent:        audit.NullableString(userAgent),
	})
}

// ChangePassword verifies the old password and stores a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, claims *models.SessionClaims, req models.ChangePasswordRequest, ip, userAgent string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid password payload")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if err := s.repo.UpdatePassword(ctx, user.UserID, string(hash), time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}

	s.recorder.Record(ctx, models.LogEntry{
		Action:           models.ActionPasswordChanged,
		UserID:           &user.UserID,
		UserEmail:        &user.Email,
		UserFullName:     audit.NullableString(user.FullName()),
		PerformedBy:      &claims.UserID,
		PerformedByEmail: &claims.Email,
		IPAddress:        audit.NullableString(ip),
		UserAgent:        audit.NullableString(userAgent),
	})

	return nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(token string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session")
	}
	return claims, nil
}

func (s *AuthService) generateSessionToken(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := &models.SessionClaims{
		UserID:   user.UserID,
		Email:    user.Email,
		FullName: user.FullName(),
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *AuthService) recordFailedLogin(ctx context.Context, req models.LoginRequest, motive string) {
	s.recorder.Record(ctx, models.LogEntry{
		Action:    models.ActionLoginFailed,
		UserEmail: audit.NullableString(req.Email),
		IPAddress: audit.NullableString(req.IP),
		UserAgent: audit.NullableString(req.UserAgent),
		Details:   models.JSONMap{"motivo": motive, "metodo": "credenciales"},
	})
}
