// Package config loads specsql settings from config.toml, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is the full specsql configuration.
type Config struct {
	Extract  ExtractConfig                `toml:"extract"`
	Output   OutputConfig                 `toml:"output"`
	Database DatabaseConfig               `toml:"database"`
	Log      LogConfig                    `toml:"log"`
	Mappings map[string]map[string]string `toml:"mappings"`
}

// ExtractConfig controls which sheets are read and the run tokens.
type ExtractConfig struct {
	Rules        string   `toml:"rules"`
	StartSheet   int      `toml:"start_sheet"`
	SkipSheets   []string `toml:"skip_sheets"`
	CategoryCell string   `toml:"category_cell"`
	SystemID     string   `toml:"system_id"`
	SystemDate   string   `toml:"system_date"`
}

// OutputConfig controls where generated SQL goes.
type OutputConfig struct {
	Path string `toml:"path"`
}

// DatabaseConfig selects the target database for the run command.
type DatabaseConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

var (
	drivers    = []string{"sqlserver", "mysql", "pgx"}
	logLevels  = []string{"debug", "info", "warn", "warning", "error"}
	logFormats = []string{"text", "json"}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			Rules:        "TABLE_INFO.txt",
			StartSheet:   2,
			SkipSheets:   []string{"表紙", "改訂履歴"},
			CategoryCell: "B2",
		},
		Output: OutputConfig{
			Path: "insert_all.sql",
		},
		Database: DatabaseConfig{
			Driver: "sqlserver",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (if
// path is empty or the file is missing, defaults are kept), then a .env file
// in the working directory, then SPECSQL_* environment variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SPECSQL_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("SPECSQL_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("SPECSQL_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SPECSQL_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Extract.StartSheet < 0 {
		errs = append(errs, fmt.Sprintf("extract.start_sheet (%d) must be non-negative", c.Extract.StartSheet))
	}
	if c.Extract.CategoryCell == "" {
		errs = append(errs, "extract.category_cell is required")
	}
	if !slices.Contains(drivers, c.Database.Driver) {
		errs = append(errs, fmt.Sprintf("database.driver %q must be one of %s", c.Database.Driver, strings.Join(drivers, ", ")))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Sprintf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
