package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonitoringResponse snapshot completo del monitoring
type MonitoringResponse struct {
	Requests    RequestMetrics     `json:"requests"`
	Performance PerformanceMetrics `json:"performance"`
	Inventory   InventoryMetrics   `json:"inventory"`
	Cache       CacheMetrics       `json:"cache"`
	Storage     StorageMetrics     `json:"storage"`
	System      SystemMetrics      `json:"system"`
	Redis       RedisMetrics       `json:"redis"`
	Timestamp   string             `json:"timestamp"`
	Version     string             `json:"version"`
	GeneratedBy string             `json:"generatedBy"`
}

// RequestMetrics contadores HTTP agrupados por "METHOD /ruta"
type RequestMetrics struct {
	Endpoints  int                        `json:"endpoints"`
	Total      int                        `json:"total"`
	ByEndpoint map[string]EndpointMetrics `json:"byEndpoint"`
	Slow       []RequestEvent             `json:"slow"`
	Errors     []RequestEvent             `json:"errors"`
	SlowCount  int                        `json:"slowCount"`
	ErrorCount int                        `json:"errorCount"`
	Top        []TopEndpoint              `json:"top"`
}

type EndpointMetrics struct {
	Count     int     `json:"count"`
	Errors    int     `json:"errors"`
	TotalTime int64   `json:"totalTimeMs"`
	AvgTime   float64 `json:"avgTimeMs"`
}

// RequestEvent request lento o fallido
type RequestEvent struct {
	Endpoint   string    `json:"endpoint"`
	StatusCode int       `json:"statusCode"`
	DurationMs int64     `json:"durationMs"`
	Timestamp  time.Time `json:"timestamp"`
}

type TopEndpoint struct {
	Endpoint string `json:"endpoint"`
	Count    int    `json:"count"`
	AvgTime  string `json:"avgTime"`
}

// PerformanceMetrics latencias en milisegundos
type PerformanceMetrics struct {
	AvgMs float64 `json:"avgMs"`
	MaxMs int64   `json:"maxMs"`
	MinMs int64   `json:"minMs"`
	Avg   string  `json:"avg"`
	Max   string  `json:"max"`
	Min   string  `json:"min"`
}

// InventoryMetrics estado del catálogo y del historial
type InventoryMetrics struct {
	Items     int             `json:"items"`
	Units     int             `json:"units"`
	Value     decimal.Decimal `json:"value"`
	LowStock  int             `json:"lowStock"`
	Movements int             `json:"movements"`
	LastSync  *Timestamp      `json:"lastSync,omitempty"`
	Status    string          `json:"status"`
}

// CacheMetrics estado del caché de analytics
type CacheMetrics struct {
	L2Enabled   bool    `json:"l2Enabled"`
	Keys        int     `json:"keys"`
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	Requests    int64   `json:"requests"`
	HitRate     float64 `json:"hitRate"`
	HitRateText string  `json:"hitRateText"`
	Status      string  `json:"status"`
}

// StorageMetrics pool de conexiones del almacenamiento
type StorageMetrics struct {
	Driver          string `json:"driver"`
	OpenConnections int    `json:"openConnections"`
	InUse           int    `json:"inUse"`
	Idle            int    `json:"idle"`
	WaitCount       int64  `json:"waitCount"`
	WaitDuration    string `json:"waitDuration"`
	Status          string `json:"status"`
}

// SystemMetrics métricas del proceso Go
type SystemMetrics struct {
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heapAllocMb"`
	HeapSysMB     float64 `json:"heapSysMb"`
	SysMB         float64 `json:"sysMb"`
	GCCycles      uint32  `json:"gcCycles"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	Uptime        string  `json:"uptime"`
	GoVersion     string  `json:"goVersion"`
	Platform      string  `json:"platform"`
	Environment   string  `json:"environment"`
}

type RedisMetrics struct {
	Connected   bool    `json:"connected"`
	Keys        int64   `json:"keys"`
	MemoryBytes int64   `json:"memoryBytes"`
	MemoryMB    float64 `json:"memoryMb"`
	Status      string  `json:"status"`
}

// RequestData datos de un request individual
type RequestData struct {
	Endpoint   string
	Method     string
	Duration   time.Duration
	StatusCode int
	Timestamp  time.Time
	Error      error
}
