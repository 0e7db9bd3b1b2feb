package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"inventory-service/internal/cache"
	"inventory-service/internal/config"
	"inventory-service/internal/metrics"
	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMonitoringService_RecordsRequests(t *testing.T) {
	store, db := newTestStore(t)
	analyticsCache := cache.NewAnalyticsCache(nil, 4, time.Minute, zap.NewNop())
	defer analyticsCache.Close()

	svc := NewMonitoringService(MonitoringDeps{
		Config:    &config.Config{},
		Store:     store,
		SQLDB:     db,
		Cache:     analyticsCache,
		Collector: metrics.NewCollector(),
	}, zap.NewNop())

	now := time.Now()
	svc.RecordRequest(models.RequestData{Endpoint: "/api/v1/items", Method: http.MethodGet, Duration: 10 * time.Millisecond, StatusCode: 200, Timestamp: now})
	svc.RecordRequest(models.RequestData{Endpoint: "/api/v1/items", Method: http.MethodGet, Duration: 30 * time.Millisecond, StatusCode: 200, Timestamp: now})
	svc.RecordRequest(models.RequestData{Endpoint: "/api/v1/backup/import", Method: http.MethodPost, Duration: 2 * time.Second, StatusCode: 400, Timestamp: now, Error: errors.New("bad")})

	result := svc.GetMetrics(context.Background())

	assert.Equal(t, 3, result.Requests.Total)
	assert.Equal(t, 2, result.Requests.Endpoints)
	assert.Equal(t, 1, result.Requests.SlowCount)
	assert.Equal(t, 1, result.Requests.ErrorCount)
	assert.Equal(t, "GET /api/v1/items", result.Requests.Top[0].Endpoint)
	assert.Equal(t, 20.0, result.Requests.ByEndpoint["GET /api/v1/items"].AvgTime)
	assert.Equal(t, 1, result.Requests.ByEndpoint["POST /api/v1/backup/import"].Errors)
	assert.Equal(t, int64(2000), result.Requests.Slow[0].DurationMs)

	assert.Equal(t, int64(2000), result.Performance.MaxMs)
	assert.Equal(t, int64(10), result.Performance.MinMs)

	assert.Equal(t, "online", result.Storage.Status)
	assert.Equal(t, "sqlite3", result.Storage.Driver)
	assert.Equal(t, "disabled", result.Redis.Status)
	assert.Equal(t, "online", result.Cache.Status)
	assert.False(t, result.Cache.L2Enabled)
	assert.Equal(t, "production", result.System.Environment)
}

func TestMonitoringService_InventoryStats(t *testing.T) {
	store, db := newTestStore(t)
	collector := metrics.NewCollector()
	seedItem(t, store, "a", "Widget", 2, 5)
	seedItem(t, store, "b", "Bolt", 10, 1)
	require.NoError(t, store.AppendMovement(context.Background(), &models.StockMovement{
		ID: "m1", ItemID: "a", ItemName: "Widget", Type: models.MovementIn, Quantity: 2, Date: models.Now(),
	}))

	svc := NewMonitoringService(MonitoringDeps{Store: store, SQLDB: db, Collector: collector}, zap.NewNop())
	inventory := svc.GetInventoryStats(context.Background())

	assert.Equal(t, "online", inventory.Status)
	assert.Equal(t, 2, inventory.Items)
	assert.Equal(t, 12, inventory.Units)
	assert.Equal(t, "48", inventory.Value.String())
	assert.Equal(t, 1, inventory.LowStock)
	assert.Equal(t, 1, inventory.Movements)
	assert.Nil(t, inventory.LastSync)

	families, err := collector.Registry().Gather()
	require.NoError(t, err)
	gauges := map[string]float64{}
	for _, family := range families {
		if family.GetName() == "inventory_items" || family.GetName() == "inventory_low_stock_items" {
			gauges[family.GetName()] = family.GetMetric()[0].GetGauge().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"inventory_items": 2, "inventory_low_stock_items": 1}, gauges)
}

func TestMonitoringService_BoundsTrackedErrors(t *testing.T) {
	svc := NewMonitoringService(MonitoringDeps{}, zap.NewNop())

	for i := 0; i < maxTrackedEvents+20; i++ {
		svc.RecordRequest(models.RequestData{Endpoint: "/x", Method: http.MethodGet, StatusCode: 500, Timestamp: time.Now()})
	}

	result := svc.GetMetrics(context.Background())
	assert.Equal(t, maxTrackedEvents, result.Requests.ErrorCount)
	assert.Equal(t, maxTrackedEvents+20, result.Requests.Total)
	assert.Equal(t, "offline", result.Storage.Status)
	assert.Equal(t, "disabled", result.Cache.Status)
	assert.Equal(t, "disabled", result.Inventory.Status)
}
