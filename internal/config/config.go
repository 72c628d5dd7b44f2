package config

import (
	"os"
	"strconv"
	"time"
)

type DroughtServiceConfig struct {
	Port         string
	MetricsAddr  string
	ModelPath    string
	PostgresCfg  PostgresConfig
	RabbitMQCfg  RabbitMQConfig
	RedisCfg     RedisConfig
	RiskCfg      RiskConfig
	AnalysisCfg  AnalysisConfig
	SatelliteCfg SatelliteConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RiskConfig carries the scoring thresholds as explicit values so the
// scorer never reads the environment itself.
type RiskConfig struct {
	NDVISevereThreshold float64
	RainfallThresholdMM float64
}

type AnalysisConfig struct {
	Workers       int
	CacheTTL      time.Duration
	CheckInterval time.Duration
}

type SatelliteConfig struct {
	ProviderURL string
	Timeout     time.Duration
}

func New() *DroughtServiceConfig {
	return &DroughtServiceConfig{
		Port:        getEnvOrDefault("PORT", "8086"),
		MetricsAddr: getEnvOrDefault("METRICS_ADDR", ":9106"),
		ModelPath:   getEnvOrDefault("ZONE_MODEL_PATH", "rainfall_zone_model.json"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "drought"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		RiskCfg: RiskConfig{
			NDVISevereThreshold: getEnvFloatOrDefault("NDVI_THRESHOLD_SEVERE", 0.3),
			RainfallThresholdMM: getEnvFloatOrDefault("RAINFALL_THRESHOLD_MM", 50),
		},
		AnalysisCfg: AnalysisConfig{
			Workers:       getEnvIntOrDefault("ANALYSIS_WORKERS", 8),
			CacheTTL:      getEnvDurationOrDefault("READING_CACHE_TTL", 24*time.Hour),
			CheckInterval: getEnvDurationOrDefault("ANALYSIS_CHECK_INTERVAL", time.Hour),
		},
		SatelliteCfg: SatelliteConfig{
			ProviderURL: getEnvOrDefault("SATELLITE_PROVIDER_URL", "http://localhost:8095"),
			Timeout:     getEnvDurationOrDefault("SATELLITE_PROVIDER_TIMEOUT", 2*time.Minute),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
