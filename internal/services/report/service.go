// Package report builds metric tables, text summaries and HTML tear
// sheets from canonical return series. It is a thin consumer of the
// statistics engine: every metric is computed independently so a NaN in
// one never blocks the rest.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/bobmcallan/tearsheet/internal/common"
	"github.com/bobmcallan/tearsheet/internal/models"
	"github.com/bobmcallan/tearsheet/internal/series"
	"github.com/bobmcallan/tearsheet/internal/stats"
)

// Options carries the caller-supplied report parameters.
type Options struct {
	Title         string
	RiskFreeRate  float64
	Periods       int // 0 = infer from the date index
	MatchDates    bool
	Confidence    float64
	RollingWindow int
}

// DefaultOptions mirrors the config defaults.
func DefaultOptions() Options {
	return Options{
		Title:         "Strategy Tearsheet",
		MatchDates:    true,
		Confidence:    0.95,
		RollingWindow: 30,
	}
}

// Service generates reports for a strategy versus an optional benchmark.
type Service struct {
	logger *common.Logger
}

// NewService creates a new report service
func NewService(logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{logger: logger}
}

// metricRow is one metric with its per-series values.
type metricRow struct {
	name   string
	values []float64
	render func(float64) string
}

// Metrics computes the full metrics table. The first column names the
// metric; the remaining columns hold the strategy and, when supplied, the
// benchmark values. Input series are normalized and aligned before any
// metric runs; the metric functions themselves never re-align.
func (s *Service) Metrics(strategy models.Series, benchmark *models.Series, opts Options) models.Table {
	strat, bench, hasBench := s.prepare(strategy, benchmark, opts)

	cols := []models.Series{strat}
	if hasBench {
		cols = append(cols, bench)
	}

	var rows []metricRow
	add := func(name string, render func(float64) string, f func(models.Series) float64) {
		row := metricRow{name: name, render: render}
		for _, c := range cols {
			row.values = append(row.values, f(c))
		}
		rows = append(rows, row)
	}

	rf, ppy, conf := opts.RiskFreeRate, opts.Periods, opts.Confidence
	if conf <= 0 || conf >= 1 {
		conf = 0.95
	}

	add("Total Return", formatPct, stats.Comp)
	add("CAGR", formatPct, func(r models.Series) float64 { return stats.CAGR(r, ppy) })
	add("Expected Return (per period)", formatPct, stats.GeometricMean)
	add("Volatility (ann.)", formatPct, func(r models.Series) float64 { return stats.Volatility(r, ppy) })
	add("Sharpe", formatRatio, func(r models.Series) float64 { return stats.Sharpe(r, rf, ppy) })
	add("Sortino", formatRatio, func(r models.Series) float64 { return stats.Sortino(r, rf, ppy) })
	add("Calmar", formatRatio, func(r models.Series) float64 { return stats.Calmar(r, ppy) })
	add("Max Drawdown", formatPct, stats.MaxDrawdown)
	add("Avg Drawdown", formatPct, stats.AvgDrawdown)
	add("Longest DD Days", formatDays, func(r models.Series) float64 { return float64(stats.LongestDrawdownDays(r)) })
	add("Ulcer Index", formatRatio, stats.UlcerIndex)
	add(fmt.Sprintf("Daily VaR (%.0f%%)", conf*100), formatPct, func(r models.Series) float64 { return stats.ValueAtRisk(r, conf) })
	add(fmt.Sprintf("CVaR (%.0f%%)", conf*100), formatPct, func(r models.Series) float64 { return stats.CVaR(r, conf) })
	add("Best Period", formatPct, stats.Best)
	add("Worst Period", formatPct, stats.Worst)
	add("Win Rate", formatPct, stats.WinRate)
	add("Avg Win", formatPct, stats.AvgWin)
	add("Avg Loss", formatPct, stats.AvgLoss)
	add("Payoff Ratio", formatRatio, stats.PayoffRatio)
	add("Profit Factor", formatRatio, stats.ProfitFactor)
	add("Gain/Pain Ratio", formatRatio, stats.GainToPainRatio)
	add("Tail Ratio", formatRatio, func(r models.Series) float64 { return stats.TailRatio(r, 0.95) })
	add("Outlier Win Ratio", formatRatio, func(r models.Series) float64 { return stats.OutlierWinRatio(r, 0.99) })
	add("Outlier Loss Ratio", formatRatio, func(r models.Series) float64 { return stats.OutlierLossRatio(r, 0.01) })
	add("Kelly Criterion", formatPct, stats.KellyCriterion)
	add("Exposure", formatPct, stats.Exposure)
	add("Consecutive Wins", formatDays, func(r models.Series) float64 { return float64(stats.ConsecutiveWins(r)) })
	add("Consecutive Losses", formatDays, func(r models.Series) float64 { return float64(stats.ConsecutiveLosses(r)) })
	add("Skew", formatRatio, stats.Skew)
	add("Kurtosis", formatRatio, stats.Kurtosis)
	add("Recovery Factor", formatRatio, stats.RecoveryFactor)

	if hasBench {
		benchRows := []metricRow{
			{name: "Correlation to Benchmark", render: formatRatio, values: []float64{stats.Correlation(strat, bench), 1}},
			{name: "Beta", render: formatRatio, values: []float64{stats.Beta(strat, bench), 1}},
			{name: "Alpha (ann.)", render: formatPct, values: []float64{stats.Alpha(strat, bench, ppy), 0}},
			{name: "R²", render: formatRatio, values: []float64{stats.RSquared(strat, bench), 1}},
			{name: "Information Ratio", render: formatRatio, values: []float64{stats.InformationRatio(strat, bench), math.NaN()}},
		}
		rows = append(rows, benchRows...)
	}

	table := models.Table{Columns: []string{"Metric", "Strategy"}}
	if hasBench {
		table.Columns = append(table.Columns, "Benchmark")
	}
	for _, row := range rows {
		cells := []string{row.name}
		for _, v := range row.values {
			cells = append(cells, row.render(v))
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

// DrawdownTable renders drawdown episodes with the contract column names.
func (s *Service) DrawdownTable(strategy models.Series, opts Options) models.Table {
	strat, _, _ := s.prepare(strategy, nil, opts)
	episodes := stats.DrawdownDetails(strat)

	table := models.Table{Columns: []string{"start", "valley", "end", "days", "max drawdown"}}
	for _, e := range episodes {
		end := "-"
		if e.Recovered() {
			end = e.End.Format("2006-01-02")
		}
		table.Rows = append(table.Rows, []string{
			e.Start.Format("2006-01-02"),
			e.Valley.Format("2006-01-02"),
			end,
			fmt.Sprintf("%d", e.Days),
			formatPct(e.MaxDrawdown),
		})
	}
	return table
}

// MonthlyTable renders the (year, month) pivot of compounded returns.
func (s *Service) MonthlyTable(strategy models.Series, opts Options) models.Table {
	strat, _, _ := s.prepare(strategy, nil, opts)
	rows := stats.MonthlyReturns(strat)

	table := models.Table{Columns: []string{
		"Year", "Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec", "EOY",
	}}
	for _, row := range rows {
		cells := []string{fmt.Sprintf("%d", row.Year)}
		for _, m := range row.Months {
			cells = append(cells, formatPct(m))
		}
		cells = append(cells, formatPct(row.EOY))
		table.Rows = append(table.Rows, cells)
	}
	return table
}

// Basic writes the metrics table as text.
func (s *Service) Basic(w io.Writer, strategy models.Series, benchmark *models.Series, opts Options) error {
	s.logger.Debug().Str("title", opts.Title).Msg("Rendering basic report")
	return writeTables(w, opts.Title, []labeledTable{
		{"Performance Metrics", s.Metrics(strategy, benchmark, opts)},
	})
}

// Full writes the metrics table plus drawdown details and monthly returns
// as text.
func (s *Service) Full(w io.Writer, strategy models.Series, benchmark *models.Series, opts Options) error {
	s.logger.Debug().Str("title", opts.Title).Msg("Rendering full report")
	return writeTables(w, opts.Title, []labeledTable{
		{"Performance Metrics", s.Metrics(strategy, benchmark, opts)},
		{"Drawdown Details", s.DrawdownTable(strategy, opts)},
		{"Monthly Returns", s.MonthlyTable(strategy, opts)},
	})
}

// prepare normalizes and aligns the input series once, up front. The
// metrics layer receives canonical gap-free returns.
func (s *Service) prepare(strategy models.Series, benchmark *models.Series, opts Options) (models.Series, models.Series, bool) {
	strat := series.PrepareReturns(strategy, series.KindAuto, 0, 0)
	if benchmark == nil || benchmark.Empty() {
		return strat, models.Series{}, false
	}
	bench := series.PrepareReturns(*benchmark, series.KindAuto, 0, 0)
	strat, bench = series.Align(strat, bench, opts.MatchDates)
	return strat, bench, true
}
