package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
	Render   RenderConfig
	Log      LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// DataConfig holds dataset loading and default-selection settings
type DataConfig struct {
	File                  string
	Source                string // "file" or "postgres"
	PreviewDefaultColumns int
	HeatmapDefaultColumns int
	PreviewRowLimit       int
}

// DatabaseConfig holds database connection settings. An empty URL disables snapshots.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	ResetOnBoot  bool
}

// RenderConfig holds chart image settings
type RenderConfig struct {
	ChartWidth  int
	ChartHeight int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Data:     *loadDataConfig(),
		Database: *loadDatabaseConfig(),
		Render:   *loadRenderConfig(),
		Log:      LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "debug"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:                  getEnvOrDefault("DATA_FILE", "malaria_hf_dqa.csv"),
		Source:                strings.ToLower(getEnvOrDefault("DATA_SOURCE", SourceFile)),
		PreviewDefaultColumns: getEnvIntOrDefault("PREVIEW_DEFAULT_COLUMNS", 5),
		HeatmapDefaultColumns: getEnvIntOrDefault("HEATMAP_DEFAULT_COLUMNS", 5),
		PreviewRowLimit:       getEnvIntOrDefault("PREVIEW_ROW_LIMIT", 200),
	}
}

// LoadDatabase reads only the database settings, for tools that never serve the dashboard
func LoadDatabase() *DatabaseConfig {
	return loadDatabaseConfig()
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:          getEnvOrDefault("DATABASE_URL", ""),
		MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 5),
		ResetOnBoot:  getEnvBoolOrDefault("DB_RESET_ON_BOOT", false),
	}
}

func loadRenderConfig() *RenderConfig {
	return &RenderConfig{
		ChartWidth:  getEnvIntOrDefault("CHART_WIDTH", 800),
		ChartHeight: getEnvIntOrDefault("CHART_HEIGHT", 450),
	}
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	switch config.Data.Source {
	case SourceFile:
		if config.Data.File == "" {
			return errors.ConfigInvalid("DATA_FILE is required when DATA_SOURCE=file")
		}
	case SourcePostgres:
		if !config.Database.Enabled() {
			return errors.ConfigInvalid("DATABASE_URL is required when DATA_SOURCE=postgres")
		}
	default:
		return errors.ConfigInvalid("DATA_SOURCE must be \"file\" or \"postgres\"")
	}
	if config.Data.PreviewDefaultColumns < 0 || config.Data.HeatmapDefaultColumns < 0 || config.Data.PreviewRowLimit < 0 {
		return errors.ConfigInvalid("default column counts and row limit cannot be negative")
	}
	if config.Render.ChartWidth <= 0 || config.Render.ChartHeight <= 0 {
		return errors.ConfigInvalid("chart dimensions must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
