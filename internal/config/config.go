// Package config handles application configuration.
//
// Go Pattern: Configuration via environment variables with sensible
// defaults. We use a struct to hold configuration and a function to load
// values from the environment. A .env file is honored when present, so
// local runs don't need exports in the shell; every value can still be
// overridden per-run with command line flags.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Shimizu-Technology/exam-tools-cli/internal/models"
)

// Config holds all application configuration.
type Config struct {
	// Where to look for TB_<n>.pdf files
	BankDir string

	// Optional YAML file replacing the built-in chapter tables (ETC-3)
	RegistryFile string

	// Default path for saved selections
	OutputFile string

	// Default export format: "txt" or "json"
	Format string

	// Number of concurrent bank readers
	WorkerCount int

	// Optional course preselection ("AB" or "BC"); empty means prompt
	DefaultCourse string
}

// Load reads configuration from the environment with sensible defaults.
//
// Go Pattern: Functions that can fail return (value, error). This is
// Go's alternative to exceptions — the caller MUST handle the error.
func Load() (*Config, error) {
	// Load .env if one exists. Missing is fine; unreadable is not.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{
		BankDir:       getEnv("TESTBANK_DIR", "."),
		RegistryFile:  getEnv("REGISTRY_FILE", ""),
		OutputFile:    getEnv("OUTPUT_FILE", "selected_questions.txt"),
		Format:        getEnv("EXPORT_FORMAT", "txt"),
		WorkerCount:   getEnvInt("WORKER_COUNT", 3),
		DefaultCourse: getEnv("DEFAULT_COURSE", ""),
	}

	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("WORKER_COUNT must be at least 1, got %d", cfg.WorkerCount)
	}

	// Normalize the course preselection early so the CLI can trust it.
	if cfg.DefaultCourse != "" {
		course, err := models.ParseCourse(cfg.DefaultCourse)
		if err != nil {
			return nil, fmt.Errorf("DEFAULT_COURSE: %w", err)
		}
		cfg.DefaultCourse = string(course)
	}

	return cfg, nil
}

// getEnv reads an environment variable with a fallback default.
// Go Pattern: Small helper functions are idiomatic. Go favors simple,
// composable functions over configuration frameworks.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}
