package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"inventory-service/internal/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type RedisDB struct {
	Client *redis.Client
}

// RedisStats estadísticas básicas de Redis
type RedisStats struct {
	Keys            int64
	UsedMemoryBytes int64
}

// NewRedisDB conecta a Redis. Sin URL configurada retorna (nil, nil) y el caché queda solo en memoria.
func NewRedisDB(cfg config.RedisConfig, logger *zap.Logger) (*RedisDB, error) {
	if cfg.URL == "" {
		logger.Info("Redis not configured, analytics cache will be memory-only")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Si se proporciona una contraseña separada, usarla
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	opt.DB = cfg.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("Redis connection established",
		zap.String("addr", opt.Addr),
		zap.Int("db", cfg.DB),
	)

	return &RedisDB{Client: client}, nil
}

func (r *RedisDB) Close() error {
	return r.Client.Close()
}

func (r *RedisDB) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// GetStats retorna número de keys y memoria usada
func (r *RedisDB) GetStats(ctx context.Context) (RedisStats, error) {
	var stats RedisStats

	keys, err := r.Client.DBSize(ctx).Result()
	if err != nil {
		return stats, err
	}
	stats.Keys = keys

	info, err := r.Client.Info(ctx, "memory").Result()
	if err != nil {
		return stats, err
	}
	stats.UsedMemoryBytes = parseUsedMemory(info)

	return stats, nil
}

func parseUsedMemory(info string) int64 {
	for _, line := range strings.Split(info, "\n") {
		if !strings.HasPrefix(line, "used_memory:") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(line, "used_memory:"))
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
