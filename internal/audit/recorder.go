package audit

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/admission-analytics/admin-api/internal/models"
)

type logStore interface {
	Insert(ctx context.Context, entry *models.LogEntry) error
}

// Recorder appends activity-log entries on behalf of the other services. The
// write is best-effort: a failure is logged server-side and never propagated,
// so an audit problem cannot fail the action being audited.
type Recorder struct {
	store  logStore
	logger *zap.Logger
}

// NewRecorder constructs a Recorder.
func NewRecorder(store logStore, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, logger: logger}
}

// Record appends one entry. Unusable IP values are dropped and details
// default to an empty map, matching what the legacy writer stored.
func (r *Recorder) Record(ctx context.Context, entry models.LogEntry) {
	if entry.IPAddress != nil {
		ip := strings.TrimSpace(*entry.IPAddress)
		if ip == "" || strings.EqualFold(ip, "unknown") {
			entry.IPAddress = nil
		}
	}
	if entry.Details == nil {
		entry.Details = models.JSONMap{}
	}

	if err := r.store.Insert(ctx, &entry); err != nil {
		r.logger.Error("failed to append audit log",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

// NullableString maps empty strings to nil the way the legacy writer
// null-coalesced optional columns.
func NullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
