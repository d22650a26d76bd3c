package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIBaseURL     string
	StorageBackend string
	StoragePath    string
	RedisAddr      string
	RedisNamespace string
	HTTPTimeout    time.Duration
	NotifyDismiss  time.Duration
	ContactDelay   time.Duration
	MetricsAddr    string
	LogLevel       slog.Level

	// mock backend
	HTTPPort           string
	JWTSecret          string
	PaymentSuccessRate float64
	LoginRateLimit     int
	RateLimitWindow    time.Duration
	ShutdownTimeout    time.Duration
}

func NewConfig() *Config {
	return &Config{
		APIBaseURL:         strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000/api"), "/"),
		StorageBackend:     getEnv("STORAGE_BACKEND", "file"),
		StoragePath:        getEnv("STORAGE_PATH", "aerolite_storage.json"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisNamespace:     getEnv("REDIS_NAMESPACE", "aerolite"),
		HTTPTimeout:        getDuration("HTTP_TIMEOUT", 30*time.Second),
		NotifyDismiss:      getDuration("NOTIFY_DISMISS", 5*time.Second),
		ContactDelay:       getDuration("CONTACT_DELAY", 2*time.Second),
		MetricsAddr:        getEnv("METRICS_ADDR", ""),
		LogLevel:           getLevel("LOG_LEVEL", slog.LevelInfo),
		HTTPPort:           getEnv("HTTP_PORT", "5000"),
		JWTSecret:          getEnv("JWT_SECRET", "aerolite-dev-secret"),
		PaymentSuccessRate: getFloat("PAYMENT_SUCCESS_RATE", 0.9),
		LoginRateLimit:     getInt("LOGIN_RATE_LIMIT", 0),
		RateLimitWindow:    getDuration("RATE_LIMIT_WINDOW", time.Minute),
		ShutdownTimeout:    getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		slog.Warn("Invalid duration, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("Invalid number, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		slog.Warn("Invalid number, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return n
}

func getLevel(key string, fallback slog.Level) slog.Level {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		slog.Warn("Invalid log level, using default", "key", key, "value", raw)
		return fallback
	}
	return lvl
}
