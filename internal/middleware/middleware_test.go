package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"inventory-service/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthCheck_StorageOnly(t *testing.T) {
	db, err := database.NewSQLDB(database.DriverSQLite, filepath.Join(t.TempDir(), "health.db"), 1, 1, time.Minute, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	router := gin.New()
	router.GET("/health", NewHealthChecker(db, nil, zap.NewNop()).HealthCheck)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status   string `json:"status"`
		Services map[string]struct {
			Status string `json:"status"`
			Driver string `json:"driver"`
		} `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Services["storage"].Status)
	assert.Equal(t, "sqlite3", body.Services["storage"].Driver)
	assert.Equal(t, "disabled", body.Services["redis"].Status)
}

func TestHealthCheck_StorageDown(t *testing.T) {
	db, err := database.NewSQLDB(database.DriverSQLite, filepath.Join(t.TempDir(), "missing", "health.db"), 1, 1, time.Minute, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	router := gin.New()
	router.GET("/health", NewHealthChecker(db, nil, zap.NewNop()).HealthCheck)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
}

func TestStatusAndMethodColors(t *testing.T) {
	assert.Equal(t, greenColor, getStatusColor(http.StatusOK))
	assert.Equal(t, yellowColor, getStatusColor(http.StatusNotFound))
	assert.Equal(t, redColor, getStatusColor(http.StatusInternalServerError))
	assert.Equal(t, blueColor, getMethodColor(http.MethodPost))
	assert.Equal(t, whiteColor, getMethodColor("OPTIONS"))
}

func TestLoggerMiddleware_LevelsAndSkips(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	router := gin.New()
	router.Use(RequestIDMiddleware(), LoggerMiddleware(zap.New(core), "/health"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/health", "/ok", "/boom"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "/boom", entries[1].ContextMap()["path"])
	assert.NotEmpty(t, entries[1].ContextMap()["request_id"])
}
