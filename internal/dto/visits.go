package dto

import (
	"strings"

	"github.com/admission-analytics/admin-api/internal/models"
)

// VisitListRequest is the JSON body of the visit listing endpoint. Field
// names mirror the legacy client payload.
type VisitListRequest struct {
	RBD      int64  `json:"RBD"`
	Region   string `json:"region"`
	Comuna   int64  `json:"comuna"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
}

// Filter normalizes the request into visit listing criteria. The end date is
// widened by one day so the selected day is fully included.
func (r VisitListRequest) Filter() models.VisitFilter {
	from, to := dateRange(strings.TrimSpace(r.DateFrom), strings.TrimSpace(r.DateTo))

	page := r.Page
	if page < 1 {
		page = 1
	}
	limit := r.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	return models.VisitFilter{
		RBD:      r.RBD,
		Region:   strings.TrimSpace(r.Region),
		Comuna:   r.Comuna,
		DateFrom: from,
		DateTo:   to,
		Page:     page,
		Limit:    limit,
	}
}
