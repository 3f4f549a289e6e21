package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/admission-analytics/admin-api/internal/dto"
	"github.com/admission-analytics/admin-api/internal/service"
	appErrors "github.com/admission-analytics/admin-api/pkg/errors"
	"github.com/admission-analytics/admin-api/pkg/response"
)

// VisitHandler exposes school-visit queries.
type VisitHandler struct {
	visits *service.VisitService
}

// NewVisitHandler constructs handler.
func NewVisitHandler(visits *service.VisitService) *VisitHandler {
	return &VisitHandler{visits: visits}
}

// List godoc
// @Summary List school visits
// @Tags Visits
// @Accept json
// @Produce json
// @Param payload body dto.VisitListRequest true "Filters and pagination"
// @Success 200 {object} models.VisitPage
// @Failure 500 {object} response.ErrorBody
// @Router /visitas/list [post]
func (h *VisitHandler) List(c *gin.Context) {
	var req dto.VisitListRequest
	if err := bindStrictJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.visits.List(c.Request.Context(), req.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// Get godoc
// @Summary Fetch one school visit
// @Tags Visits
// @Produce json
// @Param id path int true "Visit ID"
// @Success 200 {object} models.Visit
// @Failure 404 {object} response.ErrorBody
// @Router /visitas/{id} [get]
func (h *VisitHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid visit id"))
		return
	}
	visit, err := h.visits.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, visit)
}
