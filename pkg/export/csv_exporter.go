package export

import (
	"bytes"
	"fmt"
	"strings"
)

// Dataset defines tabular export content. Headers fix both the column order
// and the projection; rows are looked up by header name.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into CSV bytes compatible with the
// legacy admin exports: every field double-quoted, CRLF row separators and a
// UTF-8 byte-order mark so Excel opens accented text correctly.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset. The header row is always
// emitted, even for an empty row set.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	lines := make([]string, 0, len(data.Rows)+1)
	lines = append(lines, quoteRecord(data.Headers))

	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		lines = append(lines, quoteRecord(record))
	}

	buf := &bytes.Buffer{}
	buf.WriteString("\ufeff")
	buf.WriteString(strings.Join(lines, "\r\n"))
	return buf.Bytes(), nil
}

func quoteRecord(fields []string) string {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
