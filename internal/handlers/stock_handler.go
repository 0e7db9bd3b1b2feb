package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"inventory-service/internal/metrics"
	"inventory-service/internal/models"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// StockHandler maneja ajustes de stock e historial de movimientos
type StockHandler struct {
	baseHandler
	stockService services.StockService
	collector    *metrics.Collector
	location     *time.Location
}

// NewStockHandler crea una nueva instancia del handler
func NewStockHandler(stockService services.StockService, collector *metrics.Collector, location *time.Location, logger *zap.Logger) *StockHandler {
	if location == nil {
		location = time.Local
	}
	return &StockHandler{
		baseHandler:  baseHandler{logger: logger},
		stockService: stockService,
		collector:    collector,
		location:     location,
	}
}

// AdjustStock registra una carga (IN) o descarga (OUT) sobre un item
func (h *StockHandler) AdjustStock(c *gin.Context) {
	start := time.Now()
	itemID := c.Param("id")

	var req models.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err, "Error en el formato de datos")
		return
	}

	h.logDebug("Ajuste de stock recibido",
		zap.String("item_id", itemID),
		zap.Int("quantity", req.Quantity),
		zap.String("type", string(req.Direction)))

	response, err := h.stockService.AdjustStock(c.Request.Context(), itemID, &req)
	if err != nil {
		h.collector.RecordAdjustment(directionLabel(req.Direction), adjustmentResult(err))
		h.respondError(c, err, "Error ajustando stock")
		return
	}
	h.collector.RecordAdjustment(directionLabel(req.Direction), "ok")

	h.logSuccess("Stock ajustado",
		zap.String("item_id", itemID),
		zap.Int("old_quantity", response.OldQuantity),
		zap.Int("new_quantity", response.NewQuantity),
		zap.Duration("latency", time.Since(start)))

	respondOK(c, http.StatusOK, "Movimiento registrado correctamente", response)
}

// directionLabel evita labels arbitrarios en la métrica
func directionLabel(t models.MovementType) string {
	if t.Valid() {
		return string(t)
	}
	return "unknown"
}

func adjustmentResult(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, models.ErrItemNotFound):
		return "not_found"
	case errors.Is(err, models.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

// GetMovements obtiene el historial filtrado por ?search, ?start_date, ?end_date (YYYY-MM-DD) y ?limit
func (h *StockHandler) GetMovements(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    movements,
		"count":   len(movements),
		"filter":  describeFilter(filter),
	})
}

// GetLowStock obtiene items con quantity <= minStock
func (h *StockHandler) GetLowStock(c *gin.Context) {
	items, err := h.stockService.GetLowStock(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error obteniendo stock bajo")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"count":   len(items),
	})
}

// parseMovementFilter lee los filtros del historial desde la query string
func parseMovementFilter(c *gin.Context, loc *time.Location) (models.MovementFilter, error) {
	filter := models.MovementFilter{Search: strings.TrimSpace(c.Query("search"))}

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return filter, fmt.Errorf("start_date: %w", err)
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return filter, fmt.Errorf("end_date: %w", err)
		}
		filter.EndDate = &t
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, fmt.Errorf("limit must be a non-negative integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}

// describeFilter texto legible de los filtros activos, usado también en el pdf
func describeFilter(filter models.MovementFilter) string {
	var parts []string
	if filter.Search != "" {
		parts = append(parts, "Articolo: "+filter.Search)
	}
	if filter.StartDate != nil {
		parts = append(parts, "Dal: "+filter.StartDate.Format("02/01/2006"))
	}
	if filter.EndDate != nil {
		parts = append(parts, "Al: "+filter.EndDate.Format("02/01/2006"))
	}
	return strings.Join(parts, ", ")
}
