package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Драйверы хранилища продаж.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// HTTPAddr — адрес основного HTTP API.
	HTTPAddr string
	// MetricsAddr — отдельный порт для /metrics и health-проверок.
	MetricsAddr string
	// StorageDriver — memory или postgres.
	StorageDriver string
	PostgresDSN   string
	// RedisAddr — адрес Redis для корзин; пустой — корзины в памяти.
	RedisAddr string
	// CartTTL — время жизни брошенной корзины.
	CartTTL time.Duration
	// KafkaBrokers — брокеры для событий продаж; пустой список
	// отключает публикацию.
	KafkaBrokers []string
}

// DefaultConfig возвращает настройки для локального запуска без
// внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:      ":8080",
		MetricsAddr:   ":9090",
		StorageDriver: StorageMemory,
		CartTTL:       24 * time.Hour,
	}
}

// LoadConfig читает настройки из окружения (и .env, если он есть).
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.HTTPAddr = getenv("IMS_HTTP_ADDR", cfg.HTTPAddr)
	cfg.MetricsAddr = getenv("IMS_METRICS_ADDR", cfg.MetricsAddr)
	cfg.StorageDriver = getenv("IMS_STORAGE_DRIVER", cfg.StorageDriver)
	cfg.PostgresDSN = getenv("IMS_POSTGRES_DSN", cfg.PostgresDSN)
	cfg.RedisAddr = getenv("IMS_REDIS_ADDR", cfg.RedisAddr)
	cfg.KafkaBrokers = splitCSV(os.Getenv("IMS_KAFKA_BROKERS"))

	if ttl := os.Getenv("IMS_CART_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil && parsed > 0 {
			cfg.CartTTL = parsed
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
