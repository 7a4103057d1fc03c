package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tearsheet/internal/models"
)

func dailySeries(name string, values ...float64) models.Series {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, len(values))
	for i := range values {
		dates[i] = start.AddDate(0, 0, i)
	}
	return models.NewSeries(name, dates, values)
}

func strategyReturns() models.Series {
	return dailySeries("strategy", 0.01, -0.02, 0.03, -0.01, 0.02, 0.01, -0.03, 0.02, 0.01, -0.02)
}

func benchmarkReturns() models.Series {
	return dailySeries("benchmark", 0.005, -0.01, 0.02, -0.005, 0.015, 0.01, -0.02, 0.01, 0.005, -0.01)
}

func findRow(t *testing.T, table models.Table, name string) []string {
	t.Helper()
	for _, row := range table.Rows {
		if row[0] == name {
			return row
		}
	}
	t.Fatalf("row %q not found", name)
	return nil
}

func TestMetrics_StrategyOnly(t *testing.T) {
	svc := NewService(nil)

	table := svc.Metrics(strategyReturns(), nil, DefaultOptions())

	assert.Equal(t, []string{"Metric", "Strategy"}, table.Columns)

	assert.Equal(t, "1.83%", findRow(t, table, "Total Return")[1])
	assert.Equal(t, "39.05%", findRow(t, table, "Volatility (ann.)")[1])
	assert.Equal(t, "60.00%", findRow(t, table, "Win Rate")[1])
	assert.Equal(t, "-3.00%", findRow(t, table, "Max Drawdown")[1])
	assert.Equal(t, "2", findRow(t, table, "Consecutive Wins")[1])
	assert.Equal(t, "-3.16%", findRow(t, table, "Daily VaR (95%)")[1])

	for _, row := range table.Rows {
		assert.Len(t, row, 2)
		assert.NotContains(t, row[0], "Benchmark")
	}
}

func TestMetrics_WithBenchmark(t *testing.T) {
	svc := NewService(nil)
	bench := benchmarkReturns()

	table := svc.Metrics(strategyReturns(), &bench, DefaultOptions())

	assert.Equal(t, []string{"Metric", "Strategy", "Benchmark"}, table.Columns)

	assert.Equal(t, "0.99", findRow(t, table, "Correlation to Benchmark")[1])
	assert.Equal(t, "1.58", findRow(t, table, "Beta")[1])
	assert.Equal(t, "1.00", findRow(t, table, "Beta")[2])
	assert.Equal(t, "-42.50%", findRow(t, table, "Alpha (ann.)")[1])
	assert.Equal(t, "-", findRow(t, table, "Information Ratio")[2])
}

func TestMetrics_SharpeUsesRiskFree(t *testing.T) {
	svc := NewService(nil)
	opts := DefaultOptions()
	opts.RiskFreeRate = 0.01

	table := svc.Metrics(strategyReturns(), nil, opts)

	assert.Equal(t, "1.84", findRow(t, table, "Sharpe")[1])
	assert.Equal(t, "2.81", findRow(t, table, "Sortino")[1])
}

func TestMetrics_PriceInputNormalized(t *testing.T) {
	svc := NewService(nil)

	prices := dailySeries("strategy", 100, 102, 101, 103)
	returns := dailySeries("strategy", 0, 0.02, -1.0/102, 2.0/101)

	fromPrices := svc.Metrics(prices, nil, DefaultOptions())
	fromReturns := svc.Metrics(returns, nil, DefaultOptions())

	assert.Equal(t, findRow(t, fromPrices, "Total Return"), findRow(t, fromReturns, "Total Return"))
}

func TestMetrics_MismatchedDates(t *testing.T) {
	svc := NewService(nil)

	strat := strategyReturns()
	// Benchmark missing the first two strategy dates.
	bench := models.NewSeries("benchmark", strat.Dates[2:], benchmarkReturns().Values[2:])

	opts := DefaultOptions()
	table := svc.Metrics(strat, &bench, opts)
	require.Len(t, table.Columns, 3)

	opts.MatchDates = false
	truncated := svc.Metrics(strat, &bench, opts)
	require.Len(t, truncated.Columns, 3)

	// Intersection pairs matching dates; truncation pairs by position, so
	// the head of the strategy lines up with a shifted benchmark.
	assert.Equal(t, "0.99", findRow(t, table, "Correlation to Benchmark")[1])
	assert.Equal(t, "-0.05", findRow(t, truncated, "Correlation to Benchmark")[1])
}

func TestDrawdownTable(t *testing.T) {
	svc := NewService(nil)

	table := svc.DrawdownTable(strategyReturns(), DefaultOptions())

	assert.Equal(t, []string{"start", "valley", "end", "days", "max drawdown"}, table.Columns)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, []string{"2020-01-02", "2020-01-02", "2020-01-03", "1", "-2.00%"}, table.Rows[0])
	assert.Equal(t, "-", table.Rows[2][2]) // unrecovered
	assert.Equal(t, "-3.00%", table.Rows[2][4])
}

func TestMonthlyTable(t *testing.T) {
	svc := NewService(nil)

	table := svc.MonthlyTable(strategyReturns(), DefaultOptions())

	require.Len(t, table.Columns, 14)
	assert.Equal(t, "Year", table.Columns[0])
	assert.Equal(t, "EOY", table.Columns[13])
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "2020", table.Rows[0][0])
	assert.Equal(t, "1.83%", table.Rows[0][1])
	assert.Equal(t, "-", table.Rows[0][2]) // no February data
	assert.Equal(t, "1.83%", table.Rows[0][13])
}

func TestBasic(t *testing.T) {
	svc := NewService(nil)
	var buf bytes.Buffer

	err := svc.Basic(&buf, strategyReturns(), nil, DefaultOptions())

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Strategy Tearsheet")
	assert.Contains(t, out, "Performance Metrics")
	assert.Contains(t, out, "Sharpe")
	assert.NotContains(t, out, "Drawdown Details")
}

func TestFull(t *testing.T) {
	svc := NewService(nil)
	bench := benchmarkReturns()
	var buf bytes.Buffer

	err := svc.Full(&buf, strategyReturns(), &bench, DefaultOptions())

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Performance Metrics")
	assert.Contains(t, out, "Drawdown Details")
	assert.Contains(t, out, "Monthly Returns")
	assert.Contains(t, out, "Correlation to Benchmark")

	// Section headings are underlined.
	assert.True(t, strings.Contains(out, "Performance Metrics\n-------------------"))
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"pct", formatPct(0.01826489086835159), "1.83%"},
		{"pct negative", formatPct(-0.03), "-3.00%"},
		{"pct nan", formatPct(math.NaN()), "-"},
		{"ratio", formatRatio(1.8439250885518859), "1.84"},
		{"days", formatDays(3), "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
