package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"inventory-service/internal/assistant"
	"inventory-service/internal/cache"
	"inventory-service/internal/database"
	"inventory-service/internal/metrics"
	"inventory-service/internal/report"
	"inventory-service/internal/repository"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router     *gin.Engine
	store      repository.Store
	collector  *metrics.Collector
	analytics  *AnalyticsHandler
	backup     *BackupHandler
	monitoring *MonitoringHandler
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Count   int             `json:"count"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer monta todos los handlers sobre sqlite en un directorio temporal
func newTestServer(t *testing.T, ai *assistant.Assistant) *testServer {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.NewSQLDB(database.DriverSQLite, filepath.Join(t.TempDir(), "inventory.db"), 1, 1, time.Minute, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := repository.NewStore(db.DB, logger)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { store.Close() })

	analyticsCache := cache.NewAnalyticsCache(nil, 16, time.Minute, logger)
	t.Cleanup(analyticsCache.Close)

	collector := metrics.NewCollector()
	loc := time.UTC

	itemService := services.NewItemService(store, logger)
	stockService := services.NewStockService(store, loc, logger)
	backupService := services.NewBackupService(store, logger)
	analyticsService := services.NewAnalyticsService(store, analyticsCache, 10, loc, logger)
	monitoringService := services.NewMonitoringService(services.MonitoringDeps{
		Store:     store,
		SQLDB:     db,
		Cache:     analyticsCache,
		Collector: collector,
	}, logger)

	items := NewItemHandler(itemService, stockService, logger)
	stock := NewStockHandler(stockService, collector, loc, logger)
	reports := NewReportHandler(stockService, report.NewExporter(loc), loc, logger)
	analyticsHandler := NewAnalyticsHandler(analyticsService, collector, logger)
	backup := NewBackupHandler(backupService, collector, logger)
	assistantHandler := NewAssistantHandler(ai, analyticsService, logger)
	monitoring := NewMonitoringHandler(monitoringService, logger)

	router := gin.New()
	router.Use(monitoring.RecordRequestMiddleware())

	v1 := router.Group("/api/v1")
	v1.GET("/items", items.ListItems)
	v1.POST("/items", items.CreateItem)
	v1.GET("/items/:id", items.GetItem)
	v1.PUT("/items/:id", items.UpdateItem)
	v1.DELETE("/items/:id", items.DeleteItem)
	v1.POST("/items/:id/adjust", stock.AdjustStock)
	v1.GET("/items/:id/movements", items.GetItemMovements)
	v1.GET("/movements", stock.GetMovements)
	v1.GET("/movements/export.xlsx", reports.ExportSpreadsheet)
	v1.GET("/movements/export.pdf", reports.ExportDocument)
	v1.GET("/stock/low", stock.GetLowStock)
	v1.GET("/dashboard", analyticsHandler.GetDashboard)
	v1.GET("/dashboard/ws", analyticsHandler.DashboardWebSocket)
	v1.GET("/analytics", analyticsHandler.GetYearlyReport)
	v1.GET("/analytics/categories", analyticsHandler.GetCategories)
	v1.POST("/backup/export", backup.Export)
	v1.POST("/backup/import", backup.Import)
	v1.GET("/config", backup.GetConfig)
	v1.PUT("/config", backup.UpdateConfig)
	v1.POST("/ai/ask", assistantHandler.Ask)
	v1.GET("/ai/planning", assistantHandler.PlanProduction)
	v1.GET("/ai/seasonality", assistantHandler.AnalyzeSeasonality)
	v1.POST("/ai/description", assistantHandler.GenerateDescription)
	v1.POST("/ai/image", assistantHandler.AnalyzeImage)
	v1.GET("/monitoring/metrics", monitoring.GetMetrics)
	v1.GET("/monitoring/metrics/summary", monitoring.GetMetricsSummary)
	v1.GET("/monitoring/ws", monitoring.WebSocketMetrics)
	router.GET("/health/monitoring", monitoring.HealthCheck)
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	return &testServer{
		router:     router,
		store:      store,
		collector:  collector,
		analytics:  analyticsHandler,
		backup:     backup,
		monitoring: monitoring,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// createItem da de alta un item por HTTP y retorna su id
func (s *testServer) createItem(t *testing.T, name string, qty, minStock int) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/items", gin.H{
		"code":     "C-" + name,
		"name":     name,
		"price":    4.5,
		"cost":     2,
		"quantity": qty,
		"minStock": minStock,
		"category": "Tools",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var item struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &item))
	require.NotEmpty(t, item.ID)
	return item.ID
}
