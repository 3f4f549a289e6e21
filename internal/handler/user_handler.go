package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/admission-analytics/admin-api/internal/middleware"
	"github.com/admission-analytics/admin-api/internal/service"
	"github.com/admission-analytics/admin-api/pkg/clientip"
	appErrors "github.com/admission-analytics/admin-api/pkg/errors"
	"github.com/admission-analytics/admin-api/pkg/response"
)

// UserHandler exposes account administration endpoints.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler constructs handler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Get godoc
// @Summary Fetch a user profile
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	user, err := h.users.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Create godoc
// @Summary Register a new user
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.CreateUserRequest true "New user"
// @Success 201 {object} models.User
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	var req service.CreateUserRequest
	if err := bindStrictJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.users.Create(c.Request.Context(), claims, req, clientip.FromRequest(c.Request), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Update godoc
// @Summary Update a user profile
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body service.UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	var req service.UpdateUserRequest
	if err := bindStrictJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.users.Update(c.Request.Context(), claims, c.Param("id"), req, clientip.FromRequest(c.Request), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Delete godoc
// @Summary Delete a user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 204
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if err := h.users.Delete(c.Request.Context(), claims, c.Param("id"), clientip.FromRequest(c.Request), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
