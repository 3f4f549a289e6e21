package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/admission-analytics/admin-api/internal/dto"
	"github.com/admission-analytics/admin-api/internal/service"
	"github.com/admission-analytics/admin-api/pkg/response"
)

// LogHandler exposes the activity-log endpoints.
type LogHandler struct {
	logs    *service.LogService
	exports *service.ExportService
}

// NewLogHandler constructs handler.
func NewLogHandler(logs *service.LogService, exports *service.ExportService) *LogHandler {
	return &LogHandler{logs: logs, exports: exports}
}

// List godoc
// @Summary List activity log entries
// @Tags Logs
// @Produce json
// @Param action query string false "Exact action match"
// @Param performed_by query string false "Performer email substring"
// @Param date_from query string false "Inclusive start day (YYYY-MM-DD)"
// @Param date_to query string false "Inclusive end day (YYYY-MM-DD)"
// @Param page query int false "Page number, 20 rows per page"
// @Success 200 {object} models.LogPage
// @Failure 500 {object} response.ErrorBody
// @Router /logs [get]
func (h *LogHandler) List(c *gin.Context) {
	var query dto.LogListQuery
	_ = c.ShouldBindQuery(&query)

	page, err := h.logs.List(c.Request.Context(), query.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// Meta godoc
// @Summary Distinct actions and performer emails for filter dropdowns
// @Tags Logs
// @Produce json
// @Success 200 {object} models.LogMeta
// @Failure 500 {object} response.ErrorBody
// @Router /logs/meta [get]
func (h *LogHandler) Meta(c *gin.Context) {
	meta, err := h.logs.Meta(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, meta)
}

// Export godoc
// @Summary Download filtered log entries as a file
// @Tags Logs
// @Produce octet-stream
// @Param action query string false "Exact action match"
// @Param performed_by_email query string false "Performer email substring"
// @Param start query string false "Inclusive start day (YYYY-MM-DD)"
// @Param end query string false "Inclusive end day (YYYY-MM-DD)"
// @Param format query string false "csv, xlsx or pdf" default(csv)
// @Param all query string false "1 or true lifts the row cap"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /logs/export [get]
func (h *LogHandler) Export(c *gin.Context) {
	var query dto.LogExportQuery
	_ = c.ShouldBindQuery(&query)

	file, err := h.exports.Export(c.Request.Context(), query.Filter(), query.NormalizedFormat(), query.ExportAll())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Payload)
}
