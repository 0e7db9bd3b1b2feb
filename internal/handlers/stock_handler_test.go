package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inventory-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestStockHandler_AdjustFlow(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.createItem(t, "Widget", 10, 5)

	w := s.do(t, http.MethodPost, "/api/v1/items/"+id+"/adjust", gin.H{"quantity": 3, "type": "OUT", "reason": "sale"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		OldQuantity int `json:"old_quantity"`
		NewQuantity int `json:"new_quantity"`
		Movement    struct {
			ItemName string `json:"itemName"`
			Type     string `json:"type"`
		} `json:"movement"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &resp))
	assert.Equal(t, 10, resp.OldQuantity)
	assert.Equal(t, 7, resp.NewQuantity)
	assert.Equal(t, "Widget", resp.Movement.ItemName)
	assert.Equal(t, "OUT", resp.Movement.Type)

	w = s.do(t, http.MethodPost, "/api/v1/items/"+id+"/adjust", gin.H{"quantity": 8, "type": "OUT"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/items/missing/adjust", gin.H{"quantity": 1, "type": "IN"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/items/"+id+"/adjust", gin.H{"quantity": 1, "type": "SIDEWAYS"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/items/"+id+"/adjust", gin.H{"quantity": 0, "type": "IN"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/items/"+id+"/movements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeEnvelope(t, w).Count)

	w = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `inventory_stock_adjustments_total{result="ok",type="OUT"} 1`)
	assert.Contains(t, body, `inventory_stock_adjustments_total{result="insufficient_stock",type="OUT"} 1`)
	assert.Contains(t, body, `inventory_stock_adjustments_total{result="not_found",type="IN"} 1`)
}

func TestStockHandler_LowStockAndFilters(t *testing.T) {
	s := newTestServer(t, nil)
	low := s.createItem(t, "Paint", 2, 5)
	s.createItem(t, "Brush", 10, 1)

	w := s.do(t, http.MethodGet, "/api/v1/stock/low", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeEnvelope(t, w).Count)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/items/"+low+"/adjust", gin.H{"quantity": 4, "type": "IN"}).Code)

	w = s.do(t, http.MethodGet, "/api/v1/movements?search=paint", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeEnvelope(t, w).Count)

	w = s.do(t, http.MethodGet, "/api/v1/movements?search=brush", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decodeEnvelope(t, w).Count)

	w = s.do(t, http.MethodGet, "/api/v1/movements?start_date=2020-01-01&end_date=2020-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decodeEnvelope(t, w).Count)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/movements?start_date=01/01/2020", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/movements?limit=-1", nil).Code)
}

func TestReportHandler_Exports(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.createItem(t, "Widget", 10, 1)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/items/"+id+"/adjust", gin.H{"quantity": 2, "type": "OUT"}).Code)

	w := s.do(t, http.MethodGet, "/api/v1/movements/export.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="Movimenti_Magazzino_`))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Movimenti")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SCARICO", rows[1][3])

	w = s.do(t, http.MethodGet, "/api/v1/movements/export.pdf?search=widget", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pdfContentType, w.Header().Get("Content-Type"))
	head, err := io.ReadAll(io.LimitReader(bytes.NewReader(w.Body.Bytes()), 5))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(head))
}

func TestDescribeFilter(t *testing.T) {
	assert.Empty(t, describeFilter(parseOrEmpty(t, "")))
	assert.Equal(t, "Articolo: x, Dal: 01/03/2024", describeFilter(parseOrEmpty(t, "search=x&start_date=2024-03-01")))
}

func parseOrEmpty(t *testing.T, query string) models.MovementFilter {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/movements?"+query, nil)
	filter, err := parseMovementFilter(c, time.UTC)
	require.NoError(t, err)
	return filter
}
