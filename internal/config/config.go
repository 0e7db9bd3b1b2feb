package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Server    ServerConfig
	Logging   LoggingConfig
	AI        AIConfig
	Analytics AnalyticsConfig
}

type DatabaseConfig struct {
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig con URL vacía el caché trabaja solo en memoria
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type CacheConfig struct {
	L1Size int
	TTL    time.Duration
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type LoggingConfig struct {
	Level string
}

type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type AnalyticsConfig struct {
	TopN int
}

func Load() (*Config, error) {
	// .env es opcional
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite3"),
			URL:             getEnv("DATABASE_URL", "inventory.db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 1),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 1),
			ConnMaxLifetime: time.Duration(getEnvAsInt("DB_CONN_MAX_LIFETIME", 5)) * time.Minute,
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			L1Size: getEnvAsInt("CACHE_L1_SIZE", 64),
			TTL:    time.Duration(getEnvAsInt("CACHE_TTL_MINUTES", 10)) * time.Minute,
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		AI: AIConfig{
			APIKey:  getEnv("AI_API_KEY", ""),
			BaseURL: getEnv("AI_BASE_URL", ""),
			Model:   getEnv("AI_MODEL", "gpt-4o-mini"),
		},
		Analytics: AnalyticsConfig{
			TopN: getEnvAsInt("ANALYTICS_TOP_N", 10),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite3 or postgres, got %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Analytics.TopN < 1 {
		return fmt.Errorf("ANALYTICS_TOP_N must be positive, got %d", c.Analytics.TopN)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
