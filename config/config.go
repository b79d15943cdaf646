package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageBackendMemory   = "memory"
	StorageBackendPostgres = "postgres"

	SessionBackendMemory   = "memory"
	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"

	UploadBackendLocal = "local"
	UploadBackendR2    = "r2"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort int

	StorageBackend string
	DatabaseURL    string

	SessionBackend string
	SessionSecret  string
	SessionTTL     time.Duration
	RedisURL       string

	UploadBackend string
	UploadDir     string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	AdminUsername string
	AdminPassword string
	AdminFullName string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080" // Порт по умолчанию
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	cfg := &Config{
		ServerPort: port,

		StorageBackend: getEnvDefault("STORAGE_BACKEND", StorageBackendMemory),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		SessionBackend: getEnvDefault("SESSION_BACKEND", SessionBackendMemory),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		RedisURL:       os.Getenv("REDIS_URL"),

		UploadBackend: getEnvDefault("UPLOAD_BACKEND", UploadBackendLocal),
		UploadDir:     getEnvDefault("UPLOAD_DIR", "uploads"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminFullName: getEnvDefault("ADMIN_FULL_NAME", "Club Administrator"),
	}

	switch cfg.StorageBackend {
	case StorageBackendMemory:
	case StorageBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageBackendMemory, StorageBackendPostgres, cfg.StorageBackend)
	}

	switch cfg.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when SESSION_BACKEND=postgres")
		}
	case SessionBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("SESSION_BACKEND must be one of memory, postgres, redis, got %q", cfg.SessionBackend)
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is not set")
	}

	ttlStr := getEnvDefault("SESSION_TTL", "24h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL environment variable %q", ttlStr)
	}
	cfg.SessionTTL = ttl

	switch cfg.UploadBackend {
	case UploadBackendLocal:
	case UploadBackendR2:
		if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicBaseURL == "" {
			return nil, fmt.Errorf("R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET_NAME and R2_PUBLIC_BASE_URL are required when UPLOAD_BACKEND=r2")
		}
	default:
		return nil, fmt.Errorf("UPLOAD_BACKEND must be %q or %q, got %q", UploadBackendLocal, UploadBackendR2, cfg.UploadBackend)
	}

	return cfg, nil
}

func getEnvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
