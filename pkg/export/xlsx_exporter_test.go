package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXRenderSingleSheet(t *testing.T) {
	exporter := NewXLSXExporter()
	raw, err := exporter.Render(sampleDataset(), "Logs")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Logs"}, f.GetSheetList())

	rows, err := f.GetRows("Logs")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ID", "Accion", "Detalles"}, rows[0])
	assert.Equal(t, "Inicio de sesión", rows[1][1])
}

func TestXLSXRenderRequiresHeaders(t *testing.T) {
	exporter := NewXLSXExporter()
	_, err := exporter.Render(Dataset{}, "Logs")
	assert.Error(t, err)
}
