package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/admission-analytics/admin-api/internal/models"
)

// LogListQuery carries the raw query-string values of the listing endpoint.
// Unrecognized parameters are simply never bound.
type LogListQuery struct {
	Action      string `form:"action"`
	PerformedBy string `form:"performed_by"`
	DateFrom    string `form:"date_from"`
	DateTo      string `form:"date_to"`
	Page        string `form:"page"`
}

// Filter normalizes the raw values into a typed filter: values are trimmed,
// the action has literal '+' undone back to spaces, empty strings mean the
// predicate is absent, and the page defaults to 1.
func (q LogListQuery) Filter() models.LogFilter {
	from, to := dateRange(strings.TrimSpace(q.DateFrom), strings.TrimSpace(q.DateTo))
	return models.LogFilter{
		Action:           normalizeAction(q.Action),
		PerformedByEmail: strings.TrimSpace(q.PerformedBy),
		DateFrom:         from,
		DateTo:           to,
		Page:             parsePage(q.Page),
	}
}

// LogExportQuery carries the raw query-string values of the export endpoint.
type LogExportQuery struct {
	Action           string `form:"action"`
	PerformedByEmail string `form:"performed_by_email"`
	Start            string `form:"start"`
	End              string `form:"end"`
	Format           string `form:"format"`
	All              string `form:"all"`
}

// Filter returns the normalized export filter. Pagination does not apply to
// exports, only the row cap handled by the repository.
func (q LogExportQuery) Filter() models.LogFilter {
	from, to := dateRange(strings.TrimSpace(q.Start), strings.TrimSpace(q.End))
	return models.LogFilter{
		Action:           normalizeAction(q.Action),
		PerformedByEmail: strings.TrimSpace(q.PerformedByEmail),
		DateFrom:         from,
		DateTo:           to,
		Page:             1,
	}
}

// NormalizedFormat lowercases the requested format, defaulting to csv.
func (q LogExportQuery) NormalizedFormat() string {
	format := strings.ToLower(strings.TrimSpace(q.Format))
	if format == "" {
		format = "csv"
	}
	return format
}

// ExportAll reports whether the row cap should be lifted.
func (q LogExportQuery) ExportAll() bool {
	return q.All == "1" || q.All == "true"
}

// normalizeAction undoes the '+'-for-space URL encoding artifact the legacy
// form clients produce, then trims.
func normalizeAction(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "+", " "))
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// dateRange converts calendar dates (YYYY-MM-DD) into query bounds: the lower
// bound is the UTC start of the from-day, the upper bound the UTC start of
// the day after the to-day, so the end date covers its full 24 hours.
// Unparseable values yield absent bounds.
func dateRange(from, to string) (*time.Time, *time.Time) {
	var lower, upper *time.Time
	if d, ok := parseDay(from); ok {
		lower = &d
	}
	if d, ok := parseDay(to); ok {
		next := d.AddDate(0, 0, 1)
		upper = &next
	}
	return lower, upper
}

func parseDay(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
