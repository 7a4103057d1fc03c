package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/bobmcallan/tearsheet/internal/clients/csvfile"
	"github.com/bobmcallan/tearsheet/internal/common"
	"github.com/bobmcallan/tearsheet/internal/models"
	"github.com/bobmcallan/tearsheet/internal/services/report"
)

func main() {
	// .env is optional; real environment always wins
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("TEARSHEET_CONFIG"), "path to TOML config file")
	outputPath := flag.String("output", "", "report output path (overrides config)")
	flag.Parse()

	config, err := common.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *outputPath != "" {
		config.Output.Path = *outputPath
	}

	logger := common.NewLogger(config.Logging.Level)
	common.PrintBanner(config, logger)

	if err := run(config, logger); err != nil {
		logger.Error().Err(err).Msg("Report generation failed")
		os.Exit(1)
	}
}

func run(config *common.Config, logger *common.Logger) error {
	if config.Input.StrategyCSV == "" {
		return fmt.Errorf("no strategy CSV configured (input.strategy_csv)")
	}

	strategy, err := csvfile.Load(config.Input.StrategyCSV, config.Input.DateColumn, config.Input.StrategyColumn)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}
	logger.Info().
		Str("file", config.Input.StrategyCSV).
		Str("column", strategy.Name).
		Int("rows", strategy.Len()).
		Msg("Loaded strategy series")

	var benchmark *models.Series
	if config.Input.BenchmarkCSV != "" {
		b, err := csvfile.Load(config.Input.BenchmarkCSV, config.Input.DateColumn, config.Input.BenchmarkColumn)
		if err != nil {
			return fmt.Errorf("load benchmark: %w", err)
		}
		logger.Info().
			Str("file", config.Input.BenchmarkCSV).
			Str("column", b.Name).
			Int("rows", b.Len()).
			Msg("Loaded benchmark series")
		benchmark = &b
	}

	opts := report.Options{
		Title:         config.Title,
		RiskFreeRate:  config.Analysis.RiskFreeRate,
		Periods:       config.Analysis.Periods,
		MatchDates:    config.Analysis.MatchDates,
		Confidence:    config.Analysis.Confidence,
		RollingWindow: config.Analysis.RollingWindow,
	}
	svc := report.NewService(logger)

	out, err := os.Create(config.Output.Path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", config.Output.Path, err)
	}
	defer out.Close()

	switch config.Output.Format {
	case "text":
		err = svc.Full(out, strategy, benchmark, opts)
	default:
		err = svc.HTML(out, strategy, benchmark, opts)
	}
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	logger.Info().Str("path", config.Output.Path).Str("format", config.Output.Format).Msg("Report written")
	return nil
}
