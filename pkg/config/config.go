package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	Search    SearchConfig
	SLA       SLAConfig
	Telemetry TelemetryConfig
	OTEL      OTELConfig
	Env       string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// SearchConfig holds tuning knobs for the unified search engine
type SearchConfig struct {
	// DebounceInterval is how long input must settle before a fetch
	DebounceInterval time.Duration
	// CacheTTL is the freshness window for cached result sets
	CacheTTL time.Duration
	// MaxResultsPerSource bounds each candidate source
	MaxResultsPerSource int
	// AdapterTimeout is the hard per-source-call timeout
	AdapterTimeout time.Duration
	// BusinessSource selects the business search backend: postgres or typesense
	BusinessSource string
}

// SLAConfig holds the service-level thresholds; read-only at runtime
type SLAConfig struct {
	MedianLatencyMs float64
	P95LatencyMs    float64
	P99LatencyMs    float64
	MinCacheHitRate float64
	MaxEmptyRate    float64
	MinLocationRate float64
}

// TelemetryConfig holds the telemetry sink configuration
type TelemetryConfig struct {
	// Endpoint is the HTTP sink URL; empty disables remote sends
	Endpoint string
	Timeout  time.Duration
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "mallsearch"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Search: SearchConfig{
			DebounceInterval:    getEnvAsDurationMs("SEARCH_DEBOUNCE_MS", 120),
			CacheTTL:            getEnvAsDurationMs("SEARCH_CACHE_TTL_MS", 120000),
			MaxResultsPerSource: getEnvAsInt("SEARCH_MAX_RESULTS_PER_SOURCE", 50),
			AdapterTimeout:      getEnvAsDurationMs("SEARCH_ADAPTER_TIMEOUT_MS", 3000),
			BusinessSource:      getEnv("SEARCH_BUSINESS_SOURCE", "postgres"),
		},
		SLA: SLAConfig{
			MedianLatencyMs: getEnvAsFloat("SLA_MEDIAN_LATENCY_MS", 400),
			P95LatencyMs:    getEnvAsFloat("SLA_P95_LATENCY_MS", 600),
			P99LatencyMs:    getEnvAsFloat("SLA_P99_LATENCY_MS", 1000),
			MinCacheHitRate: getEnvAsFloat("SLA_MIN_CACHE_HIT_RATE", 0.3),
			MaxEmptyRate:    getEnvAsFloat("SLA_MAX_EMPTY_SEARCH_RATE", 0.35),
			MinLocationRate: getEnvAsFloat("SLA_MIN_LOCATION_RATE", 0.25),
		},
		Telemetry: TelemetryConfig{
			Endpoint: getEnv("TELEMETRY_ENDPOINT", ""),
			Timeout:  getEnvAsDurationMs("TELEMETRY_TIMEOUT_MS", 5000),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "mallsearch"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Env: getEnv("APP_ENV", "development"),
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDurationMs(key string, defaultMs int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultMs)) * time.Millisecond
}
