package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"inventory-service/internal/analytics"
	"inventory-service/internal/metrics"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyticsHandler expone dashboard, análisis anual y categorías
type AnalyticsHandler struct {
	baseHandler
	analyticsService services.AnalyticsService
	collector        *metrics.Collector
	pushInterval     time.Duration
}

// NewAnalyticsHandler crea una nueva instancia del handler
func NewAnalyticsHandler(analyticsService services.AnalyticsService, collector *metrics.Collector, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		baseHandler:      baseHandler{logger: logger},
		analyticsService: analyticsService,
		collector:        collector,
		pushInterval:     defaultPushInterval,
	}
}

// GetDashboard retorna KPIs, stock bajo y últimos movimientos
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error obteniendo dashboard")
		return
	}
	respondOK(c, http.StatusOK, "Dashboard generado", dashboard)
}

// DashboardWebSocket envía el dashboard periódicamente
func (h *AnalyticsHandler) DashboardWebSocket(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "websocket_dashboard"))
	streamJSON(c, logger, h.pushInterval, func(ctx context.Context) (interface{}, error) {
		return h.dashboard(ctx)
	})
}

func (h *AnalyticsHandler) dashboard(ctx context.Context) (*analytics.Dashboard, error) {
	dashboard, err := h.analyticsService.GetDashboard(ctx)
	if err != nil {
		return nil, err
	}
	h.collector.SetInventory(dashboard.KPIs.TotalItems, dashboard.KPIs.LowStockCount)
	return dashboard, nil
}

// GetYearlyReport análisis de salidas del año: ?year, ?search, ?category, ?top
func (h *AnalyticsHandler) GetYearlyReport(c *gin.Context) {
	start := time.Now()

	opts, err := parseYearlyOptions(c)
	if err != nil {
		h.respondBadRequest(c, err, "Parámetros de análisis inválidos")
		return
	}

	report, err := h.analyticsService.GetYearlyReport(c.Request.Context(), opts)
	if err != nil {
		h.respondError(c, err, "Error generando análisis")
		return
	}

	h.logDebug("Análisis anual generado",
		zap.Int("year", report.Year),
		zap.Int("matrix_rows", len(report.Matrix)),
		zap.Duration("latency", time.Since(start)))

	respondOK(c, http.StatusOK, "Análisis generado", report)
}

// GetCategories lista las categorías existentes
func (h *AnalyticsHandler) GetCategories(c *gin.Context) {
	categories, err := h.analyticsService.GetCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error obteniendo categorías")
		return
	}
	respondOK(c, http.StatusOK, "Categorías obtenidas", categories)
}

// parseYearlyOptions lee los filtros del análisis anual; year vacío significa el año actual
func parseYearlyOptions(c *gin.Context) (analytics.YearlyOptions, error) {
	opts := analytics.YearlyOptions{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
	}

	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1 {
			return opts, fmt.Errorf("year must be a positive integer")
		}
		opts.Year = year
	}
	if raw := c.Query("top"); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil || top < 1 {
			return opts, fmt.Errorf("top must be a positive integer")
		}
		opts.TopN = top
	}

	return opts, nil
}
