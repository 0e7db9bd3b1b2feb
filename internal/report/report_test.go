package report

import (
	"bytes"
	"testing"
	"time"

	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleMovements() []models.StockMovement {
	date := models.NewTimestamp(time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC))
	return []models.StockMovement{
		{ID: "0b7d2c1e-1111-2222-3333-444455556666", ItemID: "a", ItemName: "Hammer", Type: models.MovementIn, Quantity: 10, Date: date, Reason: "restock"},
		{ID: "m2", ItemID: "b", ItemName: "Pittura città", Type: models.MovementOut, Quantity: 4, Date: date},
	}
}

func TestExporter_ToSpreadsheet(t *testing.T) {
	data, err := NewExporter(time.UTC).ToSpreadsheet(sampleMovements())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID Movimento", "Data", "Articolo", "Tipo", "Quantità", "Note"}, rows[0])
	assert.Equal(t, []string{"0b7d2c1e-1111-2222-3333-444455556666", "05/03/2024, 14:30:00", "Hammer", "CARICO", "10", "restock"}, rows[1])
	assert.Equal(t, "SCARICO", rows[2][3])
	assert.Equal(t, "-", rows[2][5])
}

func TestExporter_ToSpreadsheetEmpty(t *testing.T) {
	data, err := NewExporter(time.UTC).ToSpreadsheet(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExporter_ToDocument(t *testing.T) {
	data, err := NewExporter(time.UTC).ToDocument(sampleMovements(), "Articolo: ham")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	empty, err := NewExporter(time.UTC).ToDocument(nil, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF-")))
}

func TestExporter_FileName(t *testing.T) {
	e := NewExporter(time.UTC)
	e.now = func() time.Time { return time.Date(2024, time.July, 9, 23, 0, 0, 0, time.UTC) }
	assert.Equal(t, "Movimenti_Magazzino_2024-07-09.xlsx", e.FileName("Movimenti_Magazzino", "xlsx"))
}
