// Package report genera las exportaciones de movimientos en xlsx y pdf.
package report

import (
	"bytes"
	"fmt"
	"time"

	"inventory-service/internal/analytics"
	"inventory-service/internal/models"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName     = "Movimenti"
	companyHeader = "Magazzino Pro Cloud"
)

// Exporter convierte movimientos en documentos descargables
type Exporter struct {
	location *time.Location
	now      func() time.Time
}

// NewExporter crea el exportador; las fechas se muestran en location
func NewExporter(location *time.Location) *Exporter {
	if location == nil {
		location = time.Local
	}
	return &Exporter{location: location, now: time.Now}
}

// FileName arma el nombre de descarga con la fecha del día
func (e *Exporter) FileName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, e.now().In(e.location).Format("2006-01-02"), ext)
}

func directionLabel(t models.MovementType) string {
	if t == models.MovementIn {
		return "CARICO"
	}
	return "SCARICO"
}

// ToSpreadsheet genera un xlsx con una fila por movimiento
func (e *Exporter) ToSpreadsheet(movements []models.StockMovement) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"ID Movimento", "Data", "Articolo", "Tipo", "Quantità", "Note"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "F1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, m := range movements {
		reason := m.Reason
		if reason == "" {
			reason = "-"
		}
		row := []interface{}{
			m.ID,
			m.Date.Time(e.location).Format("02/01/2006, 15:04:05"),
			m.ItemName,
			directionLabel(m.Type),
			m.Quantity,
			reason,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	widths := map[string]float64{"A": 30, "B": 20, "C": 30, "D": 10, "E": 10, "F": 20}
	for col, width := range widths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

// ToDocument genera un pdf con la tabla de movimientos y los totales de carga/descarga
func (e *Exporter) ToDocument(movements []models.StockMovement, filterDescription string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	// Encabezado
	pdf.SetFont("Helvetica", "", 18)
	pdf.Text(14, 22, companyHeader)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(14, 28, "Report Movimenti di Magazzino")
	pdf.Text(14, 33, "Generato il: "+e.now().In(e.location).Format("02/01/2006, 15:04:05"))
	if filterDescription != "" {
		pdf.Text(14, 38, tr("Filtri attivi: "+filterDescription))
	}

	// Tabla
	columns := []struct {
		title string
		width float64
		align string
	}{
		{"Data", 35, "L"},
		{"Articolo", 87, "L"},
		{"Tipo", 20, "L"},
		{tr("Q.tà"), 15, "R"},
		{"ID", 25, "L"},
	}

	pdf.SetXY(14, 45)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(79, 70, 229)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range columns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, m := range movements {
		id := m.ID
		if len(id) > 8 {
			id = id[:8] + "..."
		}
		values := []string{
			m.Date.Time(e.location).Format("02/01/06, 15:04"),
			tr(m.ItemName),
			directionLabel(m.Type),
			fmt.Sprintf("%d", m.Quantity),
			id,
		}
		for i, col := range columns {
			pdf.SetTextColor(0, 0, 0)
			style := ""
			if i == 2 {
				if m.Type == models.MovementIn {
					pdf.SetTextColor(16, 185, 129)
				} else {
					pdf.SetTextColor(225, 29, 72)
				}
			}
			if i == 4 {
				style = "I"
			}
			pdf.SetFont("Helvetica", style, 8)
			pdf.CellFormat(col.width, 6, values[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Totales
	totals := analytics.SumByType(movements)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(0, 5, fmt.Sprintf("Totale Carichi: %d pz", totals.In), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Totale Scarichi: %d pz", totals.Out), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Totale Righe: %d", len(movements)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
