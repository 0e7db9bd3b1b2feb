package services

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"inventory-service/internal/analytics"
	"inventory-service/internal/cache"
	"inventory-service/internal/config"
	"inventory-service/internal/database"
	"inventory-service/internal/metrics"
	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"go.uber.org/zap"
)

const (
	slowRequestThreshold = time.Second
	maxTrackedEvents     = 100
	maxTopEndpoints      = 10
)

type MonitoringService interface {
	GetMetrics(ctx context.Context) *models.MonitoringResponse
	RecordRequest(data models.RequestData)
	GetInventoryStats(ctx context.Context) models.InventoryMetrics
	GetCacheStats() models.CacheMetrics
	GetStorageStats(ctx context.Context) models.StorageMetrics
	GetSystemStats() models.SystemMetrics
	GetRedisStats(ctx context.Context) models.RedisMetrics
}

// MonitoringDeps fuentes del snapshot; cualquier campo puede ser nil
type MonitoringDeps struct {
	Config    *config.Config
	Store     repository.Store
	SQLDB     *database.SQLDB
	RedisDB   *database.RedisDB
	Cache     *cache.AnalyticsCache
	Collector *metrics.Collector
}

type monitoringService struct {
	deps   MonitoringDeps
	logger *zap.Logger

	mu        sync.RWMutex
	endpoints map[string]*models.EndpointMetrics
	slow      []models.RequestEvent
	failures  []models.RequestEvent
	total     int64
	maxMs     int64
	minMs     int64

	startTime time.Time
}

func NewMonitoringService(deps MonitoringDeps, logger *zap.Logger) MonitoringService {
	return &monitoringService{
		deps:      deps,
		logger:    logger,
		endpoints: make(map[string]*models.EndpointMetrics),
		minMs:     math.MaxInt64,
		startTime: time.Now(),
	}
}

func (s *monitoringService) RecordRequest(data models.RequestData) {
	s.deps.Collector.ObserveRequest(data.Method, data.Endpoint, data.StatusCode, data.Duration)

	key := fmt.Sprintf("%s %s", data.Method, data.Endpoint)
	durationMs := data.Duration.Milliseconds()
	failed := data.Error != nil || data.StatusCode >= 400

	s.mu.Lock()
	defer s.mu.Unlock()

	endpoint, ok := s.endpoints[key]
	if !ok {
		endpoint = &models.EndpointMetrics{}
		s.endpoints[key] = endpoint
	}
	endpoint.Count++
	endpoint.TotalTime += durationMs
	endpoint.AvgTime = float64(endpoint.TotalTime) / float64(endpoint.Count)
	if failed {
		endpoint.Errors++
	}

	s.total++
	s.maxMs = max(s.maxMs, durationMs)
	s.minMs = min(s.minMs, durationMs)

	event := models.RequestEvent{
		Endpoint:   key,
		StatusCode: data.StatusCode,
		DurationMs: durationMs,
		Timestamp:  data.Timestamp,
	}
	if data.Duration > slowRequestThreshold {
		s.slow = appendBounded(s.slow, event)
	}
	if failed {
		s.failures = appendBounded(s.failures, event)
	}
}

// appendBounded conserva solo los últimos maxTrackedEvents elementos
func appendBounded[T any](events []T, event T) []T {
	events = append(events, event)
	if len(events) > maxTrackedEvents {
		events = events[len(events)-maxTrackedEvents:]
	}
	return events
}

func (s *monitoringService) GetMetrics(ctx context.Context) *models.MonitoringResponse {
	s.mu.RLock()
	requests := s.requestMetrics()
	performance := s.performanceMetrics()
	s.mu.RUnlock()

	return &models.MonitoringResponse{
		Requests:    requests,
		Performance: performance,
		Inventory:   s.GetInventoryStats(ctx),
		Cache:       s.GetCacheStats(),
		Storage:     s.GetStorageStats(ctx),
		System:      s.GetSystemStats(),
		Redis:       s.GetRedisStats(ctx),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Version:     "1.0",
		GeneratedBy: "inventory-service",
	}
}

// requestMetrics requiere mu tomado en lectura
func (s *monitoringService) requestMetrics() models.RequestMetrics {
	keys := make([]string, 0, len(s.endpoints))
	byEndpoint := make(map[string]models.EndpointMetrics, len(s.endpoints))
	for key, m := range s.endpoints {
		keys = append(keys, key)
		byEndpoint[key] = *m
	}

	// Más usados primero; empate por nombre para un orden estable
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := byEndpoint[keys[i]].Count, byEndpoint[keys[j]].Count
		if ci != cj {
			return ci > cj
		}
		return keys[i] < keys[j]
	})

	top := []models.TopEndpoint{}
	for _, key := range keys[:min(len(keys), maxTopEndpoints)] {
		top = append(top, models.TopEndpoint{
			Endpoint: key,
			Count:    byEndpoint[key].Count,
			AvgTime:  fmt.Sprintf("%.2fms", byEndpoint[key].AvgTime),
		})
	}

	return models.RequestMetrics{
		Endpoints:  len(s.endpoints),
		Total:      int(s.total),
		ByEndpoint: byEndpoint,
		Slow:       append([]models.RequestEvent{}, s.slow...),
		Errors:     append([]models.RequestEvent{}, s.failures...),
		SlowCount:  len(s.slow),
		ErrorCount: len(s.failures),
		Top:        top,
	}
}

// performanceMetrics requiere mu tomado en lectura
func (s *monitoringService) performanceMetrics() models.PerformanceMetrics {
	var totalTime int64
	for _, m := range s.endpoints {
		totalTime += m.TotalTime
	}

	var avg float64
	if s.total > 0 {
		avg = float64(totalTime) / float64(s.total)
	}

	minMs := s.minMs
	if minMs == math.MaxInt64 {
		minMs = 0
	}

	return models.PerformanceMetrics{
		AvgMs: avg,
		MaxMs: s.maxMs,
		MinMs: minMs,
		Avg:   fmt.Sprintf("%.2fms", avg),
		Max:   fmt.Sprintf("%dms", s.maxMs),
		Min:   fmt.Sprintf("%dms", minMs),
	}
}

// GetInventoryStats resume el catálogo y actualiza los gauges de Prometheus
func (s *monitoringService) GetInventoryStats(ctx context.Context) models.InventoryMetrics {
	if s.deps.Store == nil {
		return models.InventoryMetrics{Status: "disabled"}
	}

	items, err := s.deps.Store.ListItems(ctx)
	if err != nil {
		s.logger.Warn("Failed to read items for monitoring", zap.Error(err))
		return models.InventoryMetrics{Status: "offline"}
	}
	movements, err := s.deps.Store.ListMovements(ctx)
	if err != nil {
		s.logger.Warn("Failed to read movements for monitoring", zap.Error(err))
		return models.InventoryMetrics{Status: "offline"}
	}

	kpis := analytics.ComputeKPIs(items)
	s.deps.Collector.SetInventory(kpis.TotalItems, kpis.LowStockCount)

	result := models.InventoryMetrics{
		Items:     kpis.TotalItems,
		Units:     kpis.TotalUnits,
		Value:     kpis.TotalValue,
		LowStock:  kpis.LowStockCount,
		Movements: len(movements),
		Status:    "online",
	}
	if cfg, err := s.deps.Store.GetConfig(ctx); err == nil {
		result.LastSync = cfg.LastSync
	}
	return result
}

func (s *monitoringService) GetCacheStats() models.CacheMetrics {
	if s.deps.Cache == nil {
		return models.CacheMetrics{Status: "disabled"}
	}

	stats := s.deps.Cache.GetStats()
	hitRate := stats.HitRate()

	return models.CacheMetrics{
		L2Enabled:   stats.L2Enabled,
		Keys:        stats.TotalKeys,
		Hits:        stats.Hits,
		Misses:      stats.Misses,
		Requests:    stats.TotalRequests,
		HitRate:     hitRate / 100,
		HitRateText: fmt.Sprintf("%.2f%%", hitRate),
		Status:      "online",
	}
}

func (s *monitoringService) GetStorageStats(ctx context.Context) models.StorageMetrics {
	if s.deps.SQLDB == nil {
		return models.StorageMetrics{Status: "offline"}
	}

	status := "online"
	if err := s.deps.SQLDB.DB.PingContext(ctx); err != nil {
		status = "offline"
	}

	stats := s.deps.SQLDB.GetStats()
	return models.StorageMetrics{
		Driver:          s.deps.SQLDB.Driver,
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		WaitCount:       stats.WaitCount,
		WaitDuration:    stats.WaitDuration.String(),
		Status:          status,
	}
}

func (s *monitoringService) GetSystemStats() models.SystemMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(s.startTime)

	environment := "production"
	if s.deps.Config != nil && s.deps.Config.Server.GinMode == "debug" {
		environment = "development"
	}

	return models.SystemMetrics{
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   megabytes(m.HeapAlloc),
		HeapSysMB:     megabytes(m.HeapSys),
		SysMB:         megabytes(m.Sys),
		GCCycles:      m.NumGC,
		UptimeSeconds: uptime.Seconds(),
		Uptime:        uptime.Round(time.Second).String(),
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		Environment:   environment,
	}
}

func (s *monitoringService) GetRedisStats(ctx context.Context) models.RedisMetrics {
	if s.deps.RedisDB == nil {
		return models.RedisMetrics{Status: "disabled"}
	}

	if err := s.deps.RedisDB.Ping(ctx); err != nil {
		s.logger.Warn("Redis ping failed", zap.Error(err))
		return models.RedisMetrics{Status: "offline"}
	}

	result := models.RedisMetrics{Connected: true, Status: "online"}
	stats, err := s.deps.RedisDB.GetStats(ctx)
	if err != nil {
		s.logger.Warn("Failed to get Redis stats", zap.Error(err))
		return result
	}

	result.Keys = stats.Keys
	result.MemoryBytes = stats.UsedMemoryBytes
	result.MemoryMB = megabytes(uint64(stats.UsedMemoryBytes))
	return result
}

func megabytes(b uint64) float64 {
	return math.Round(float64(b)/1024/1024*100) / 100
}
