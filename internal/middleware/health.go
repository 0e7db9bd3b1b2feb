package middleware

import (
	"context"
	"net/http"
	"time"

	"inventory-service/internal/database"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthChecker verifica el almacenamiento y, si está configurado, Redis
type HealthChecker struct {
	sqlDB   *database.SQLDB
	redisDB *database.RedisDB
	logger  *zap.Logger
}

// NewHealthChecker crea el checker. redisDB puede ser nil.
func NewHealthChecker(sqlDB *database.SQLDB, redisDB *database.RedisDB, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		sqlDB:   sqlDB,
		redisDB: redisDB,
		logger:  logger,
	}
}

func (h *HealthChecker) HealthCheck(c *gin.Context) {
	services := make(map[string]interface{})
	status := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	}

	// El almacenamiento es obligatorio
	dbStatus := "healthy"
	if err := h.sqlDB.Ping(); err != nil {
		dbStatus = "unhealthy"
		status["status"] = "unhealthy"
		h.logger.Error("Storage health check failed", zap.Error(err))
	}

	dbStats := h.sqlDB.GetStats()
	services["storage"] = gin.H{
		"status": dbStatus,
		"driver": h.sqlDB.Driver,
		"stats": gin.H{
			"max_open_connections": dbStats.MaxOpenConnections,
			"open_connections":     dbStats.OpenConnections,
			"in_use":               dbStats.InUse,
			"idle":                 dbStats.Idle,
		},
	}

	// Redis solo alimenta el caché L2: si falla el servicio queda degradado
	if h.redisDB == nil {
		services["redis"] = gin.H{"status": "disabled"}
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		redisStatus := "healthy"
		var redisStats interface{} = "unavailable"
		if err := h.redisDB.Ping(ctx); err != nil {
			redisStatus = "unhealthy"
			if status["status"] == "healthy" {
				status["status"] = "degraded"
			}
			h.logger.Warn("Redis health check failed", zap.Error(err))
		} else if stats, err := h.redisDB.GetStats(ctx); err != nil {
			h.logger.Warn("Failed to get Redis stats", zap.Error(err))
		} else {
			redisStats = stats
		}

		services["redis"] = gin.H{
			"status": redisStatus,
			"stats":  redisStats,
		}
	}

	httpStatus := http.StatusOK
	if status["status"] == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, status)
}
