// Package common provides shared utilities for tearsheet
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for tearsheet
type Config struct {
	Title    string         `toml:"title"`
	Input    InputConfig    `toml:"input"`
	Analysis AnalysisConfig `toml:"analysis"`
	Output   OutputConfig   `toml:"output"`
	Logging  LoggingConfig  `toml:"logging"`
}

// InputConfig locates the strategy and optional benchmark CSV files.
type InputConfig struct {
	StrategyCSV     string `toml:"strategy_csv"`
	StrategyColumn  string `toml:"strategy_column"`
	BenchmarkCSV    string `toml:"benchmark_csv"`
	BenchmarkColumn string `toml:"benchmark_column"`
	DateColumn      string `toml:"date_column"`
}

// AnalysisConfig carries the caller-supplied statistics parameters. These
// are configuration, never discovered: the engine threads them through
// every metric call.
type AnalysisConfig struct {
	RiskFreeRate  float64 `toml:"risk_free_rate"`
	Periods       int     `toml:"periods"` // 0 = infer from the date index
	MatchDates    bool    `toml:"match_dates"`
	Confidence    float64 `toml:"confidence"`
	RollingWindow int     `toml:"rolling_window"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"` // "html" or "text"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a config with defaults applied.
func NewDefaultConfig() *Config {
	return &Config{
		Title: "Strategy Tearsheet",
		Input: InputConfig{
			DateColumn: "Date",
		},
		Analysis: AnalysisConfig{
			RiskFreeRate:  0,
			Periods:       0,
			MatchDates:    true,
			Confidence:    0.95,
			RollingWindow: 30,
		},
		Output: OutputConfig{
			Path:   "tearsheet.html",
			Format: "html",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateOutputFormat(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("TEARSHEET_TITLE"); v != "" {
		config.Title = v
	}
	if v := os.Getenv("TEARSHEET_STRATEGY_CSV"); v != "" {
		config.Input.StrategyCSV = v
	}
	if v := os.Getenv("TEARSHEET_BENCHMARK_CSV"); v != "" {
		config.Input.BenchmarkCSV = v
	}
	if v := os.Getenv("TEARSHEET_OUTPUT"); v != "" {
		config.Output.Path = v
	}
	if v := os.Getenv("TEARSHEET_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("TEARSHEET_RISK_FREE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Analysis.RiskFreeRate = f
		}
	}
	if v := os.Getenv("TEARSHEET_PERIODS"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Analysis.Periods = p
		}
	}
}

// validateOutputFormat ensures Output.Format is "html" or "text",
// defaulting to "html".
func validateOutputFormat(config *Config) {
	f := strings.ToLower(strings.TrimSpace(config.Output.Format))
	if f != "html" && f != "text" {
		f = "html"
	}
	config.Output.Format = f
}
