// Package configs loads the application configuration from the
// environment, with an optional .env file for local runs.
package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
	Level   string
}

type BrowserConfig struct {
	Enabled  bool
	Headless bool
}

// FilterConfig is the default filter set applied to every batch run.
type FilterConfig struct {
	Transaction   string
	MinPrice      *int
	MaxPrice      *int
	MinBedrooms   *int
	Areas         []string
	PropertyTypes []string
}

// AppConfig is the full application configuration.
type AppConfig struct {
	AppName      string
	RegistryPath string
	OutputDir    string
	MaxPages     int
	Strict       bool
	Sources      []string
	Browser      BrowserConfig
	Filters      FilterConfig
	StdoutLogger StdoutLogConfig
	FluentBit    FluentBitConfig
}

// LoadConfig reads configuration from the environment. A missing .env
// file is fine: containers inject the environment directly.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "listing-ingestor")
	cfg.RegistryPath = os.Getenv("SOURCE_REGISTRY_PATH")
	cfg.OutputDir = getEnvAsString("OUTPUT_DIR", "output")
	cfg.MaxPages = getEnvAsInt("MAX_PAGES", 3)
	cfg.Strict = getEnvAsBool("STRICT_SOURCES", false)
	cfg.Sources = getEnvAsList("SOURCES")

	cfg.Browser.Enabled = getEnvAsBool("BROWSER_ENABLED", true)
	cfg.Browser.Headless = getEnvAsBool("BROWSER_HEADLESS", true)

	cfg.Filters.Transaction = getEnvAsString("FILTER_TRANSACTION", "sale")
	cfg.Filters.MinPrice = getEnvAsIntPtr("FILTER_MIN_PRICE")
	cfg.Filters.MaxPrice = getEnvAsIntPtr("FILTER_MAX_PRICE")
	cfg.Filters.MinBedrooms = getEnvAsIntPtr("FILTER_MIN_BEDROOMS")
	cfg.Filters.Areas = getEnvAsList("FILTER_AREAS")
	cfg.Filters.PropertyTypes = getEnvAsList("FILTER_PROPERTY_TYPES")

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	if cfg.MaxPages <= 0 {
		return nil, fmt.Errorf("MAX_PAGES must be positive, got %d", cfg.MaxPages)
	}

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsIntPtr(key string) *int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return nil
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Ignoring.\n", key, valueStr, err)
		return nil
	}
	return &valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsList splits a comma-separated variable, dropping empty items.
func getEnvAsList(key string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
