package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Title != "Strategy Tearsheet" {
		t.Errorf("Title default = %q, want %q", cfg.Title, "Strategy Tearsheet")
	}
	if cfg.Input.DateColumn != "Date" {
		t.Errorf("Input.DateColumn default = %q, want %q", cfg.Input.DateColumn, "Date")
	}
	if !cfg.Analysis.MatchDates {
		t.Error("Analysis.MatchDates default = false, want true")
	}
	if cfg.Analysis.Confidence != 0.95 {
		t.Errorf("Analysis.Confidence default = %v, want %v", cfg.Analysis.Confidence, 0.95)
	}
	if cfg.Analysis.RollingWindow != 30 {
		t.Errorf("Analysis.RollingWindow default = %d, want %d", cfg.Analysis.RollingWindow, 30)
	}
	if cfg.Output.Format != "html" {
		t.Errorf("Output.Format default = %q, want %q", cfg.Output.Format, "html")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level default = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoadConfig_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tearsheet.toml")
	content := `title = "My Fund"

[input]
strategy_csv = "returns.csv"
strategy_column = "Strategy"

[analysis]
risk_free_rate = 0.02
periods = 252
match_dates = false

[output]
path = "out.html"
format = "HTML"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Title != "My Fund" {
		t.Errorf("Title = %q, want %q", cfg.Title, "My Fund")
	}
	if cfg.Input.StrategyCSV != "returns.csv" {
		t.Errorf("Input.StrategyCSV = %q, want %q", cfg.Input.StrategyCSV, "returns.csv")
	}
	if cfg.Analysis.RiskFreeRate != 0.02 {
		t.Errorf("Analysis.RiskFreeRate = %v, want %v", cfg.Analysis.RiskFreeRate, 0.02)
	}
	if cfg.Analysis.Periods != 252 {
		t.Errorf("Analysis.Periods = %d, want %d", cfg.Analysis.Periods, 252)
	}
	if cfg.Analysis.MatchDates {
		t.Error("Analysis.MatchDates = true, want false")
	}
	if cfg.Output.Format != "html" {
		t.Errorf("Output.Format = %q, want normalized %q", cfg.Output.Format, "html")
	}
	// File did not set these, defaults survive the merge.
	if cfg.Analysis.Confidence != 0.95 {
		t.Errorf("Analysis.Confidence = %v after merge, want %v", cfg.Analysis.Confidence, 0.95)
	}
}

func TestLoadConfig_MissingFileSkipped(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Title != "Strategy Tearsheet" {
		t.Errorf("Title = %q, want default", cfg.Title)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TEARSHEET_TITLE", "Env Fund")
	t.Setenv("TEARSHEET_STRATEGY_CSV", "env.csv")
	t.Setenv("TEARSHEET_RISK_FREE_RATE", "0.03")
	t.Setenv("TEARSHEET_PERIODS", "365")
	t.Setenv("TEARSHEET_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Title != "Env Fund" {
		t.Errorf("Title = %q after env override, want %q", cfg.Title, "Env Fund")
	}
	if cfg.Input.StrategyCSV != "env.csv" {
		t.Errorf("Input.StrategyCSV = %q after env override, want %q", cfg.Input.StrategyCSV, "env.csv")
	}
	if cfg.Analysis.RiskFreeRate != 0.03 {
		t.Errorf("Analysis.RiskFreeRate = %v after env override, want %v", cfg.Analysis.RiskFreeRate, 0.03)
	}
	if cfg.Analysis.Periods != 365 {
		t.Errorf("Analysis.Periods = %d after env override, want %d", cfg.Analysis.Periods, 365)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q after env override, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoadConfig_BadEnvNumberIgnored(t *testing.T) {
	t.Setenv("TEARSHEET_PERIODS", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Analysis.Periods != 0 {
		t.Errorf("Analysis.Periods = %d with bad env value, want 0", cfg.Analysis.Periods)
	}
}

func TestValidateOutputFormat(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.Format = "pdf"
	validateOutputFormat(cfg)
	if cfg.Output.Format != "html" {
		t.Errorf("Output.Format = %q for unknown format, want %q", cfg.Output.Format, "html")
	}

	cfg.Output.Format = " TEXT "
	validateOutputFormat(cfg)
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, "text")
	}
}
