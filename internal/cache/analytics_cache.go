package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// KeyPrefix prefijo de las claves en Redis
const KeyPrefix = "analytics:"

// CacheStats estadísticas del caché
type CacheStats struct {
	Hits          int64
	Misses        int64
	TotalRequests int64
	TotalKeys     int
	L2Enabled     bool
}

// HitRate porcentaje de hits sobre el total de consultas
func (s CacheStats) HitRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalRequests) * 100
}

type l1Entry struct {
	data      []byte
	expiresAt time.Time
}

// AnalyticsCache caché multi-nivel para resultados de analytics, indexado por hash del contenido
type AnalyticsCache struct {
	// L1 Cache: memoria local
	l1Cache map[string]l1Entry
	l1Mutex sync.RWMutex

	// L2 Cache: Redis, opcional
	redisClient *redis.Client

	maxL1Size int
	ttl       time.Duration

	logger *zap.Logger

	statsMutex sync.RWMutex
	hits       int64
	misses     int64

	stop chan struct{}
	once sync.Once
}

// NewAnalyticsCache crea el caché. Con redisClient nil trabaja solo en memoria.
func NewAnalyticsCache(redisClient *redis.Client, maxL1Size int, ttl time.Duration, logger *zap.Logger) *AnalyticsCache {
	if maxL1Size <= 0 {
		maxL1Size = 1
	}

	ac := &AnalyticsCache{
		l1Cache:     make(map[string]l1Entry),
		redisClient: redisClient,
		maxL1Size:   maxL1Size,
		ttl:         ttl,
		logger:      logger,
		stop:        make(chan struct{}),
	}

	go ac.cleanupL1Cache()

	return ac
}

// Key calcula la clave a partir del tipo de resultado y de todas sus entradas
func Key(kind string, parts ...interface{}) (string, error) {
	digest := xxhash.New()
	encoder := json.NewEncoder(digest)
	for _, part := range parts {
		if err := encoder.Encode(part); err != nil {
			return "", fmt.Errorf("failed to hash cache key: %w", err)
		}
	}
	return fmt.Sprintf("%s%s:%016x", KeyPrefix, kind, digest.Sum64()), nil
}

// Get busca la clave en L1 y luego en L2; decodifica en dst. Retorna false en miss.
func (ac *AnalyticsCache) Get(ctx context.Context, key string, dst interface{}) bool {
	start := time.Now()

	// 1. L1 Cache
	if data := ac.getFromL1(key); data != nil {
		if err := json.Unmarshal(data, dst); err == nil {
			ac.recordHit()
			ac.logger.Debug("L1 cache hit", zap.String("key", key), zap.Duration("latency", time.Since(start)))
			return true
		}
	}

	// 2. L2 Cache
	if data, err := ac.getFromL2(ctx, key); err == nil && data != nil {
		if err := json.Unmarshal(data, dst); err == nil {
			ac.setToL1(key, data)
			ac.recordHit()
			ac.logger.Debug("L2 cache hit", zap.String("key", key), zap.Duration("latency", time.Since(start)))
			return true
		}
	}

	ac.recordMiss()
	ac.logger.Debug("Cache miss", zap.String("key", key), zap.Duration("latency", time.Since(start)))
	return false
}

// Set guarda el valor en ambos niveles. Un fallo de Redis se reporta pero L1 queda cargado.
func (ac *AnalyticsCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}

	ac.setToL1(key, data)

	if ac.redisClient == nil {
		return nil
	}
	if err := ac.redisClient.Set(ctx, key, data, ac.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache value in redis: %w", err)
	}
	return nil
}

// GetOrCompute retorna el valor cacheado o ejecuta compute y lo guarda
func (ac *AnalyticsCache) GetOrCompute(ctx context.Context, key string, dst interface{}, compute func() (interface{}, error)) error {
	if ac.Get(ctx, key, dst) {
		return nil
	}

	value, err := compute()
	if err != nil {
		return err
	}

	if err := ac.Set(ctx, key, value); err != nil {
		ac.logger.Warn("Failed to store analytics result", zap.String("key", key), zap.Error(err))
	}

	// dst recibe el mismo valor que se guardó
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode computed value: %w", err)
	}
	return json.Unmarshal(data, dst)
}

// GetStats retorna estadísticas del caché
func (ac *AnalyticsCache) GetStats() CacheStats {
	ac.statsMutex.RLock()
	defer ac.statsMutex.RUnlock()

	ac.l1Mutex.RLock()
	totalKeys := len(ac.l1Cache)
	ac.l1Mutex.RUnlock()

	return CacheStats{
		Hits:          ac.hits,
		Misses:        ac.misses,
		TotalRequests: ac.hits + ac.misses,
		TotalKeys:     totalKeys,
		L2Enabled:     ac.redisClient != nil,
	}
}

// Close detiene la limpieza periódica
func (ac *AnalyticsCache) Close() {
	ac.once.Do(func() { close(ac.stop) })
}

func (ac *AnalyticsCache) recordHit() {
	ac.statsMutex.Lock()
	ac.hits++
	ac.statsMutex.Unlock()
}

func (ac *AnalyticsCache) recordMiss() {
	ac.statsMutex.Lock()
	ac.misses++
	ac.statsMutex.Unlock()
}

func (ac *AnalyticsCache) getFromL1(key string) []byte {
	ac.l1Mutex.RLock()
	defer ac.l1Mutex.RUnlock()

	entry, ok := ac.l1Cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	return entry.data
}

func (ac *AnalyticsCache) setToL1(key string, data []byte) {
	ac.l1Mutex.Lock()
	defer ac.l1Mutex.Unlock()

	if _, exists := ac.l1Cache[key]; !exists && len(ac.l1Cache) >= ac.maxL1Size {
		ac.evictOldest()
	}

	ac.l1Cache[key] = l1Entry{data: data, expiresAt: time.Now().Add(ac.ttl)}
}

// evictOldest elimina la entrada que vence primero
func (ac *AnalyticsCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range ac.l1Cache {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey = key
			oldest = entry.expiresAt
		}
	}
	delete(ac.l1Cache, oldestKey)
}

func (ac *AnalyticsCache) getFromL2(ctx context.Context, key string) ([]byte, error) {
	if ac.redisClient == nil {
		return nil, nil
	}
	return ac.redisClient.Get(ctx, key).Bytes()
}

// cleanupL1Cache elimina entradas vencidas del L1 cache periódicamente
func (ac *AnalyticsCache) cleanupL1Cache() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ac.stop:
			return
		case now := <-ticker.C:
			ac.l1Mutex.Lock()
			removed := 0
			for key, entry := range ac.l1Cache {
				if now.After(entry.expiresAt) {
					delete(ac.l1Cache, key)
					removed++
				}
			}
			remaining := len(ac.l1Cache)
			ac.l1Mutex.Unlock()

			ac.logger.Debug("L1 cache cleanup", zap.Int("removed", removed), zap.Int("items", remaining))
		}
	}
}
