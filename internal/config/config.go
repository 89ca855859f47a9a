package config

import (
	"os"
	"strconv"
	"strings"

	"alocdash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Quotas  QuotaConfig
	Logging LoggingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig points at the two source workbooks
type DataConfig struct {
	Dir string

	HierarchyFile      string
	HierarchySheet     string
	HierarchyHeaderRow int

	AllocationFile      string
	AllocationSheet     string
	AllocationHeaderRow int

	CacheEnabled bool
}

// QuotaConfig holds the per-school required counts used when the
// hierarchy workbook carries no quota columns
type QuotaConfig struct {
	Directors    int
	Coordinators int
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	Level string
}

const (
	DefaultHierarchyFile  = "GRE_Polo_Turma_Escola.xlsx"
	DefaultAllocationFile = "Relatório dos Coordenador de Polo - Dir Escolas.xlsx"
	DefaultAllocationTab  = "Planilha1"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  *loadServerConfig(),
		Data:    *loadDataConfig(),
		Quotas:  *loadQuotaConfig(),
		Logging: LoggingConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Dir:                 getEnvOrDefault("DATA_DIR", "."),
		HierarchyFile:       getEnvOrDefault("HIERARCHY_FILE", DefaultHierarchyFile),
		HierarchySheet:      getEnvOrDefault("HIERARCHY_SHEET", ""),
		HierarchyHeaderRow:  getEnvIntOrDefault("HIERARCHY_HEADER_ROW", 0),
		AllocationFile:      getEnvOrDefault("ALLOCATION_FILE", DefaultAllocationFile),
		AllocationSheet:     getEnvOrDefault("ALLOCATION_SHEET", DefaultAllocationTab),
		AllocationHeaderRow: getEnvIntOrDefault("ALLOCATION_HEADER_ROW", 1),
		CacheEnabled:        getEnvBoolOrDefault("CACHE_ENABLED", true),
	}
}

func loadQuotaConfig() *QuotaConfig {
	return &QuotaConfig{
		Directors:    getEnvIntOrDefault("REQUIRED_DIRECTORS", 1),
		Coordinators: getEnvIntOrDefault("REQUIRED_COORDINATORS", 0),
	}
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Server.Port) == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.Data.HierarchyFile == "" || config.Data.AllocationFile == "" {
		return errors.ConfigInvalid("HIERARCHY_FILE and ALLOCATION_FILE are required")
	}
	if config.Data.HierarchyHeaderRow < 0 || config.Data.AllocationHeaderRow < 0 {
		return errors.ConfigInvalid("header row offsets cannot be negative")
	}
	if config.Quotas.Directors < 0 || config.Quotas.Coordinators < 0 {
		return errors.ConfigInvalid("required quotas cannot be negative")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
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
