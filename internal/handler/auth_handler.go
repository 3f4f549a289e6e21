package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/admission-analytics/admin-api/internal/middleware"
	"github.com/admission-analytics/admin-api/internal/models"
	"github.com/admission-analytics/admin-api/internal/service"
	"github.com/admission-analytics/admin-api/pkg/clientip"
	"github.com/admission-analytics/admin-api/pkg/config"
	appErrors "github.com/admission-analytics/admin-api/pkg/errors"
	"github.com/admission-analytics/admin-api/pkg/response"
)

// AuthHandler exposes login, signout and password change.
type AuthHandler struct {
	auth    *service.AuthService
	session config.SessionConfig
	secure  bool
}

// NewAuthHandler constructs handler. secure controls the cookie Secure flag.
func NewAuthHandler(auth *service.AuthService, session config.SessionConfig, secure bool) *AuthHandler {
	return &AuthHandler{auth: auth, session: session, secure: secure}
}

// Login godoc
// @Summary Authenticate with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} models.UserInfo
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	req.IP = clientip.FromRequest(c.Request)
	req.UserAgent = c.Request.UserAgent()

	info, token, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.session.TTL.Seconds()))
	response.OK(c, gin.H{"success": true, "user": info})
}

// Signout godoc
// @Summary Terminate the current session
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /auth/signout [post]
func (h *AuthHandler) Signout(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	h.auth.Logout(c.Request.Context(), claims, clientip.FromRequest(c.Request), c.Request.UserAgent())

	h.setSessionCookie(c, "", -1)
	response.OK(c, gin.H{"success": true})
}

// ChangePassword godoc
// @Summary Update the caller's password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if err := bindStrictJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), claims, req, clientip.FromRequest(c.Request), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, value, maxAge, "/", "", h.secure, true)
}
