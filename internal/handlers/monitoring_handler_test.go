package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitoringHandler_RecordsRoutesByTemplate(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.createItem(t, "Widget", 1, 0)

	s.do(t, http.MethodGet, "/api/v1/items/"+id, nil)
	s.do(t, http.MethodGet, "/api/v1/items/missing", nil)
	s.do(t, http.MethodGet, "/health/monitoring", nil)

	w := s.do(t, http.MethodGet, "/api/v1/monitoring/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot struct {
		Requests struct {
			Total      int `json:"total"`
			ErrorCount int `json:"errorCount"`
			ByEndpoint map[string]struct {
				Count int `json:"count"`
			} `json:"byEndpoint"`
		} `json:"requests"`
		Inventory struct {
			Items int `json:"items"`
		} `json:"inventory"`
		Storage struct {
			Driver string `json:"driver"`
			Status string `json:"status"`
		} `json:"storage"`
		Redis struct {
			Status string `json:"status"`
		} `json:"redis"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))

	// POST de alta + 2 GET; health y monitoring excluidos
	assert.Equal(t, 3, snapshot.Requests.Total)
	assert.Equal(t, 1, snapshot.Requests.ErrorCount)
	assert.Equal(t, 2, snapshot.Requests.ByEndpoint["GET /api/v1/items/:id"].Count)
	assert.Equal(t, 1, snapshot.Inventory.Items)
	assert.Equal(t, "sqlite3", snapshot.Storage.Driver)
	assert.Equal(t, "online", snapshot.Storage.Status)
	assert.Equal(t, "disabled", snapshot.Redis.Status)
}

func TestMonitoringHandler_HealthAndSummary(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/health/monitoring", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "online", health.Services["storage"])
	assert.Equal(t, "disabled", health.Services["redis"])
	assert.Equal(t, "online", health.Services["cache"])

	w = s.do(t, http.MethodGet, "/api/v1/monitoring/metrics/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	for _, key := range []string{"requests", "performance", "inventory", "cache", "storage", "system", "redis"} {
		assert.Contains(t, summary, key)
	}
}

func TestShouldSkipMonitoring(t *testing.T) {
	h := &MonitoringHandler{}
	assert.True(t, h.shouldSkipMonitoring("/health"))
	assert.True(t, h.shouldSkipMonitoring("/metrics"))
	assert.True(t, h.shouldSkipMonitoring("/api/v1/dashboard/ws"))
	assert.False(t, h.shouldSkipMonitoring("/api/v1/items"))
}
