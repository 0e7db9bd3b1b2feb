package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MonitoringHandler struct {
	monitoringService services.MonitoringService
	logger            *zap.Logger
	pushInterval      time.Duration
}

func NewMonitoringHandler(monitoringService services.MonitoringService, logger *zap.Logger) *MonitoringHandler {
	return &MonitoringHandler{
		monitoringService: monitoringService,
		logger:            logger,
		pushInterval:      defaultPushInterval,
	}
}

// GetMetrics maneja la petición HTTP para obtener métricas
func (h *MonitoringHandler) GetMetrics(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "get_metrics"))

	snapshot := h.monitoringService.GetMetrics(c.Request.Context())

	logger.Debug("Métricas obtenidas exitosamente",
		zap.Int("total_requests", snapshot.Requests.Total),
		zap.Int("total_endpoints", snapshot.Requests.Endpoints),
		zap.String("avg_response_time", snapshot.Performance.Avg))

	c.JSON(http.StatusOK, snapshot)
}

// WebSocketMetrics maneja la conexión WebSocket para métricas en tiempo real
func (h *MonitoringHandler) WebSocketMetrics(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "websocket_metrics"))
	streamJSON(c, logger, h.pushInterval, func(ctx context.Context) (interface{}, error) {
		return h.monitoringService.GetMetrics(ctx), nil
	})
}

// RecordRequestMiddleware middleware para registrar requests
func (h *MonitoringHandler) RecordRequestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)

		path := c.Request.URL.Path
		if h.shouldSkipMonitoring(path) {
			return
		}

		// Agrupar por ruta registrada para no crear una entrada por id
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = path
		}

		var requestErr error
		if len(c.Errors) > 0 {
			requestErr = c.Errors.Last()
		}

		h.monitoringService.RecordRequest(models.RequestData{
			Endpoint:   endpoint,
			Method:     c.Request.Method,
			Duration:   duration,
			StatusCode: c.Writer.Status(),
			Timestamp:  time.Now(),
			Error:      requestErr,
		})
	}
}

// shouldSkipMonitoring determina si un endpoint debe ser excluido del monitoring
func (h *MonitoringHandler) shouldSkipMonitoring(path string) bool {
	excludedPaths := []string{
		"/api/v1/monitoring/metrics",
		"/api/v1/monitoring/metrics/summary",
		"/api/v1/monitoring/ws",
		"/api/v1/dashboard/ws",
		"/health/monitoring",
		"/health",
		"/metrics",
		"/",
	}

	for _, excludedPath := range excludedPaths {
		if path == excludedPath {
			return true
		}
	}

	return strings.HasPrefix(path, "/favicon")
}

// HealthCheck endpoint de health check
func (h *MonitoringHandler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	components := gin.H{
		"storage":  "online",
		"redis":    "online",
		"cache":    "online",
	}
	health := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0",
		"services":  components,
	}

	// Redis es opcional: solo degrada si está configurado y no responde
	redisMetrics := h.monitoringService.GetRedisStats(ctx)
	components["redis"] = redisMetrics.Status
	if redisMetrics.Status == "offline" {
		health["status"] = "degraded"
	}

	components["cache"] = h.monitoringService.GetCacheStats().Status

	if h.monitoringService.GetStorageStats(ctx).Status != "online" {
		components["storage"] = "offline"
		health["status"] = "degraded"
	}

	c.JSON(http.StatusOK, health)
}

// GetMetricsSummary endpoint para métricas resumidas
func (h *MonitoringHandler) GetMetricsSummary(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "get_metrics_summary"))

	snapshot := h.monitoringService.GetMetrics(c.Request.Context())

	summary := gin.H{
		"requests": gin.H{
			"total":         snapshot.Requests.Total,
			"endpoints":     snapshot.Requests.Endpoints,
			"errors":        snapshot.Requests.ErrorCount,
			"slow_requests": snapshot.Requests.SlowCount,
		},
		"performance": gin.H{
			"avg_response_time": snapshot.Performance.Avg,
			"max_response_time": snapshot.Performance.Max,
			"min_response_time": snapshot.Performance.Min,
		},
		"inventory": gin.H{
			"items":     snapshot.Inventory.Items,
			"low_stock": snapshot.Inventory.LowStock,
			"movements": snapshot.Inventory.Movements,
			"status":    snapshot.Inventory.Status,
		},
		"cache": gin.H{
			"hit_rate":   snapshot.Cache.HitRateText,
			"keys":       snapshot.Cache.Keys,
			"l2_enabled": snapshot.Cache.L2Enabled,
			"status":     snapshot.Cache.Status,
		},
		"storage": gin.H{
			"driver":           snapshot.Storage.Driver,
			"open_connections": snapshot.Storage.OpenConnections,
			"in_use":           snapshot.Storage.InUse,
			"status":           snapshot.Storage.Status,
		},
		"system": gin.H{
			"heap_alloc_mb": snapshot.System.HeapAllocMB,
			"uptime":        snapshot.System.Uptime,
			"goroutines":    snapshot.System.Goroutines,
			"platform":      snapshot.System.Platform,
		},
		"redis": gin.H{
			"connected": snapshot.Redis.Connected,
			"keys":      snapshot.Redis.Keys,
			"memory_mb": snapshot.Redis.MemoryMB,
			"status":    snapshot.Redis.Status,
		},
		"timestamp": snapshot.Timestamp,
	}

	logger.Debug("Resumen de métricas generado",
		zap.Int("total_requests", snapshot.Requests.Total),
		zap.String("avg_response_time", snapshot.Performance.Avg))

	c.JSON(http.StatusOK, summary)
}
