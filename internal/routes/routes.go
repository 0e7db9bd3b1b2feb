package routes

import (
	"net/http"

	"inventory-service/internal/handlers"
	"inventory-service/internal/metrics"
	"inventory-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers agrupa los handlers que se montan en el router
type Handlers struct {
	Item       *handlers.ItemHandler
	Stock      *handlers.StockHandler
	Report     *handlers.ReportHandler
	Analytics  *handlers.AnalyticsHandler
	Backup     *handlers.BackupHandler
	Assistant  *handlers.AssistantHandler
	Monitoring *handlers.MonitoringHandler
}

// SetupRoutes configura todas las rutas de la aplicación
func SetupRoutes(router *gin.Engine, h Handlers, healthChecker *middleware.HealthChecker, collector *metrics.Collector) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Catálogo y ajustes de stock
		items := v1.Group("/items")
		{
			items.GET("", h.Item.ListItems)
			items.POST("", h.Item.CreateItem)
			items.GET("/:id", h.Item.GetItem)
			items.PUT("/:id", h.Item.UpdateItem)
			items.DELETE("/:id", h.Item.DeleteItem)
			items.POST("/:id/adjust", h.Stock.AdjustStock)
			items.GET("/:id/movements", h.Item.GetItemMovements)
		}

		// Historial de movimientos
		movements := v1.Group("/movements")
		{
			movements.GET("", h.Stock.GetMovements)
			movements.GET("/export.xlsx", h.Report.ExportSpreadsheet)
			movements.GET("/export.pdf", h.Report.ExportDocument)
		}

		v1.GET("/stock/low", h.Stock.GetLowStock)

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("", h.Analytics.GetDashboard)
			dashboard.GET("/ws", h.Analytics.DashboardWebSocket)
		}

		analytics := v1.Group("/analytics")
		{
			analytics.GET("", h.Analytics.GetYearlyReport)
			analytics.GET("/categories", h.Analytics.GetCategories)
		}

		// Backup y configuración de sincronización
		backup := v1.Group("/backup")
		{
			backup.POST("/export", h.Backup.Export)
			backup.POST("/import", h.Backup.Import)
		}

		config := v1.Group("/config")
		{
			config.GET("", h.Backup.GetConfig)
			config.PUT("", h.Backup.UpdateConfig)
		}

		ai := v1.Group("/ai")
		{
			ai.POST("/ask", h.Assistant.Ask)
			ai.GET("/planning", h.Assistant.PlanProduction)
			ai.GET("/seasonality", h.Assistant.AnalyzeSeasonality)
			ai.POST("/description", h.Assistant.GenerateDescription)
			ai.POST("/image", h.Assistant.AnalyzeImage)
		}

		// Monitoring routes
		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/metrics", h.Monitoring.GetMetrics)
			monitoring.GET("/metrics/summary", h.Monitoring.GetMetricsSummary)
			monitoring.GET("/ws", h.Monitoring.WebSocketMetrics)
		}
	}

	router.GET("/health", healthChecker.HealthCheck)
	router.GET("/health/monitoring", h.Monitoring.HealthCheck)
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	// API info en raíz
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Inventory Service API",
			"version": "1.0.0",
			"status":  "running",
			"endpoints": gin.H{
				"health":  "/health",
				"metrics": "/metrics",
				"api":     "/api/v1",
				"items": gin.H{
					"list":   "GET /api/v1/items",
					"create": "POST /api/v1/items",
					"adjust": "POST /api/v1/items/:id/adjust",
				},
				"movements": gin.H{
					"history": "GET /api/v1/movements",
					"xlsx":    "GET /api/v1/movements/export.xlsx",
					"pdf":     "GET /api/v1/movements/export.pdf",
				},
				"dashboard": "GET /api/v1/dashboard",
				"analytics": "GET /api/v1/analytics",
				"backup": gin.H{
					"export": "POST /api/v1/backup/export",
					"import": "POST /api/v1/backup/import",
				},
				"ai": gin.H{
					"ask":         "POST /api/v1/ai/ask",
					"description": "POST /api/v1/ai/description",
					"image":       "POST /api/v1/ai/image",
				},
			},
		})
	})
}
