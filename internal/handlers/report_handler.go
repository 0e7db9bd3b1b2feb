package handlers

import (
	"net/http"
	"time"

	"inventory-service/internal/report"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// ReportHandler exporta el historial de movimientos filtrado
type ReportHandler struct {
	baseHandler
	stockService services.StockService
	exporter     *report.Exporter
	location     *time.Location
}

// NewReportHandler crea una nueva instancia del handler
func NewReportHandler(stockService services.StockService, exporter *report.Exporter, location *time.Location, logger *zap.Logger) *ReportHandler {
	if location == nil {
		location = time.Local
	}
	return &ReportHandler{
		baseHandler:  baseHandler{logger: logger},
		stockService: stockService,
		exporter:     exporter,
		location:     location,
	}
}

// ExportSpreadsheet descarga los movimientos filtrados como xlsx
func (h *ReportHandler) ExportSpreadsheet(c *gin.Context) {
	filter, err := parseMovementFilter(c, h.location)
	if err != nil {
		h.respondBadRequest(c, err, "Parámetros de filtro inválidos")
		return
	}

	movements, err := h.stockService.GetMovements(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "Error obteniendo movimientos")
		return
	}

	data, err := h.exporter.ToSpreadsheet(movements)
	if err != nil {
		h.respondError(c, err, "Error generando xlsx")
		return
	}

	h.logSuccess("Export xlsx generado", zap.Int("rows", len(movements)), zap.Int("bytes", len(data)))
	h.attachment(c, h.exporter.FileName("Movimenti_Magazzino", "xlsx"), xlsxContentType, data)
}

// ExportDocument descarga los movimientos filtrados como pdf
func (h *ReportHandler) ExportDocument(c *gin.Context) {
	filter, err := parseMovementFilter(c, h.location)
	if err != nil {
		h.respondBadRequest(c, err, "Parámetros de filtro inválidos")
		return
	}

	movements, err := h.stockService.GetMovements(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "Error obteniendo movimientos")
		return
	}

	data, err := h.exporter.ToDocument(movements, describeFilter(filter))
	if err != nil {
		h.respondError(c, err, "Error generando pdf")
		return
	}

	h.logSuccess("Export pdf generado", zap.Int("rows", len(movements)), zap.Int("bytes", len(data)))
	h.attachment(c, h.exporter.FileName("Report_Magazzino", "pdf"), pdfContentType, data)
}

func (h *ReportHandler) attachment(c *gin.Context, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, contentType, data)
}
