package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/admission-analytics/admin-api/internal/models"
	"github.com/admission-analytics/admin-api/pkg/config"
	appErrors "github.com/admission-analytics/admin-api/pkg/errors"
	"github.com/admission-analytics/admin-api/pkg/export"
)

const exportFilenameBase = "Registros_Admission_Analytics"

// exportHeaders is the fixed, ordered column projection. It is emitted even
// for an empty row set; it is never introspected from the data.
var exportHeaders = []string{"ID", "Fecha", "Accion", "UsuarioEmail", "UsuarioNombre", "IP", "UserAgent", "EjecutadoPor", "Detalles"}

type exportRepository interface {
	ListForExport(ctx context.Context, filter models.LogFilter, exportAll bool, rowCap int) ([]models.LogEntry, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService projects filtered log rows into downloadable files.
type ExportService struct {
	repo   exportRepository
	csv    csvRenderer
	xlsx   xlsxRenderer
	pdf    pdfRenderer
	loc     *time.Location
	rowCap  int
	metrics *MetricsService
	logger  *zap.Logger
}

// NewExportService constructs an ExportService. metrics may be nil.
func NewExportService(repo exportRepository, cfg config.ExportConfig, metrics *MetricsService, logger *zap.Logger, csv csvRenderer, xlsx xlsxRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid export timezone, using local", zap.String("timezone", cfg.Timezone))
		loc = time.Local
	}
	rowCap := cfg.RowCap
	if rowCap <= 0 {
		rowCap = 1000
	}
	return &ExportService{repo: repo, csv: csv, xlsx: xlsx, pdf: pdf, loc: loc, rowCap: rowCap, metrics: metrics, logger: logger}
}

// Export runs the filtered query and renders it in the requested format.
func (s *ExportService) Export(ctx context.Context, filter models.LogFilter, format string, exportAll bool) (*ExportFile, error) {
	switch format {
	case "csv", "xlsx", "pdf":
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}

	rows, err := s.repo.ListForExport(ctx, filter, exportAll, s.rowCap)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export logs")
	}

	dataset := s.dataset(rows)
	filename := fmt.Sprintf("%s_%s", exportFilenameBase, time.Now().UTC().Format("2006-01-02"))

	var payload []byte
	var contentType string
	switch format {
	case "csv":
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
		filename += ".csv"
	case "xlsx":
		payload, err = s.xlsx.Render(dataset, "Logs")
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename += ".xlsx"
	case "pdf":
		payload, err = s.pdf.Render(dataset, "Registro de actividad")
		contentType = "application/pdf"
		filename += ".pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.metrics.ObserveExport(format, len(rows))
	return &ExportFile{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func (s *ExportService) dataset(rows []models.LogEntry) export.Dataset {
	data := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"ID":            row.LogID,
			"Fecha":         row.CreatedAt.In(s.loc).Format("02-01-2006 15:04:05"),
			"Accion":        row.Action,
			"UsuarioEmail":  deref(row.UserEmail),
			"UsuarioNombre": deref(row.UserFullName),
			"IP":            deref(row.IPAddress),
			"UserAgent":     deref(row.UserAgent),
			"EjecutadoPor":  deref(row.PerformedByEmail),
			"Detalles":      stringifyDetails(row.Details),
		})
	}
	return data
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func stringifyDetails(details models.JSONMap) string {
	if details == nil {
		return ""
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return ""
	}
	return string(raw)
}
