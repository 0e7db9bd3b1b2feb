package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordsValues(t *testing.T) {
	c := NewCollector()

	c.ObserveRequest(http.MethodGet, "/api/v1/items", http.StatusOK, 20*time.Millisecond)
	c.ObserveRequest(http.MethodGet, "/api/v1/items", http.StatusOK, 10*time.Millisecond)
	c.RecordAdjustment("OUT", "insufficient_stock")
	c.RecordBackup("export", "ok")
	c.SetInventory(12, 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "/api/v1/items", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.adjustments.WithLabelValues("OUT", "insufficient_stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.backups.WithLabelValues("export", "ok")))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.items))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.lowStockItems))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.SetInventory(5, 1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inventory_items 5")
	assert.Contains(t, rec.Body.String(), "inventory_low_stock_items 1")
}
