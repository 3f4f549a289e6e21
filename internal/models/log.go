package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Audit action labels exactly as stored by the legacy writer; the listing
// filter matches on them verbatim.
const (
	ActionLogin            = "Inicio de sesión"
	ActionLoginFailed      = "Intento de inicio de sesión fallido"
	ActionLogout           = "Cierre de sesión"
	ActionUserCreated      = "Usuario creado"
	ActionUserCreateFailed = "Error al crear usuario"
	ActionUserUpdated      = "Usuario actualizado"
	ActionUserDeleted      = "Usuario eliminado"
	ActionPasswordChanged  = "Contraseña actualizada"
)

// LogPageSize is the fixed number of rows per listing page.
const LogPageSize = 20

// JSONMap maps the free-form jsonb details column.
type JSONMap map[string]interface{}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported details type %T", src)
	}
}

// LogEntry is one immutable, append-only audit record. The application only
// inserts and reads these rows; nothing updates or deletes them.
type LogEntry struct {
	LogID            string    `db:"log_id" json:"log_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	Action           string    `db:"action" json:"action"`
	UserID           *string   `db:"user_id" json:"user_id,omitempty"`
	UserEmail        *string   `db:"user_email" json:"user_email,omitempty"`
	UserFullName     *string   `db:"user_full_name" json:"user_full_name,omitempty"`
	PerformedBy      *string   `db:"performed_by" json:"performed_by,omitempty"`
	PerformedByEmail *string   `db:"performed_by_email" json:"performed_by_email,omitempty"`
	IPAddress        *string   `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent        *string   `db:"user_agent" json:"user_agent,omitempty"`
	Details          JSONMap   `db:"details" json:"details"`
}

// LogFilter captures normalized listing criteria. DateFrom is an inclusive
// lower bound, DateTo an exclusive upper bound.
type LogFilter struct {
	Action           string
	PerformedByEmail string
	DateFrom         *time.Time
	DateTo           *time.Time
	Page             int
}

// LogPage is the listing response contract.
type LogPage struct {
	Logs        []LogEntry `json:"logs"`
	TotalPages  int        `json:"totalPages"`
	CurrentPage int        `json:"currentPage"`
	TotalLogs   int        `json:"totalLogs"`
}

// LogMetaUser wraps an email for the filter dropdown payload.
type LogMetaUser struct {
	Email string `json:"email"`
}

// LogMeta holds the distinct values feeding the filter dropdowns.
type LogMeta struct {
	Actions []string      `json:"actions"`
	Users   []LogMetaUser `json:"users"`
}
