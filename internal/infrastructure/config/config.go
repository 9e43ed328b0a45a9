package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	OTLP    OTLPConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type CatalogConfig struct {
	// SnapshotPath is the JSON document the record store is seeded from at
	// startup. In-memory mutations are never flushed back to it.
	SnapshotPath string
	// UndoGracePeriod is how long the undo affordance stays reachable after a
	// confirmed delete, for clients constructed from this configuration.
	UndoGracePeriod time.Duration
}

type OTLPConfig struct {
	Endpoint    string
	ServiceName string
	Environment string
	// Disabled selects the no-op providers, matching the standard
	// OTEL_SDK_DISABLED environment variable.
	Disabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Catalog: CatalogConfig{
			SnapshotPath:    getEnv("CATALOG_SNAPSHOT", "data/products.json"),
			UndoGracePeriod: getDurationMSEnv("UNDO_GRACE_PERIOD_MS", 5000),
		},
		OTLP: OTLPConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "catalog-api"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
			Disabled:    getBoolEnv("OTEL_SDK_DISABLED", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationMSEnv(key string, defaultMS int) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(defaultMS) * time.Millisecond
	}
	ms, err := strconv.Atoi(value)
	if err != nil || ms <= 0 {
		return time.Duration(defaultMS) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
