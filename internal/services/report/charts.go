package report

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/tearsheet/internal/models"
	"github.com/bobmcallan/tearsheet/internal/series"
	"github.com/bobmcallan/tearsheet/internal/stats"
)

// RenderEquityChart renders a PNG line chart of cumulative growth for the
// strategy and optional benchmark, both rebased to 100.
// Returns raw PNG bytes.
func RenderEquityChart(strategy models.Series, benchmark *models.Series) ([]byte, error) {
	strat := series.ToPrices(strategy, 100)

	lines := []chart.Series{
		timeSeries("Strategy", strat, chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		}),
	}
	if benchmark != nil && !benchmark.Empty() {
		bench := series.ToPrices(*benchmark, 100)
		lines = append(lines, timeSeries("Benchmark", bench, chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		}))
	}

	return renderLineChart("Cumulative Growth", lines, func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("%.0f", f)
		}
		return ""
	})
}

// RenderDrawdownChart renders the underwater drawdown curve as a PNG.
func RenderDrawdownChart(strategy models.Series) ([]byte, error) {
	dd := stats.DrawdownCurve(strategy)

	line := timeSeries("Drawdown", dd, chart.Style{
		StrokeColor: drawing.ColorFromHex("dc2626"), // red-600
		StrokeWidth: 1.5,
	})
	return renderLineChart("Drawdown", []chart.Series{line}, percentFormatter)
}

// RenderRollingVolatilityChart renders the annualized rolling volatility
// as a PNG.
func RenderRollingVolatilityChart(strategy models.Series, window, periods int) ([]byte, error) {
	vol := stats.RollingVolatility(strategy, window, periods)

	line := timeSeries(fmt.Sprintf("Volatility (%dp)", window), vol, chart.Style{
		StrokeColor: drawing.ColorFromHex("7c3aed"), // violet-600
		StrokeWidth: 1.5,
	})
	return renderLineChart("Rolling Volatility", []chart.Series{line}, percentFormatter)
}

// timeSeries converts a Series to a go-chart time series, skipping NaN
// points. Undated series use ordinal days so the x-axis stays monotonic.
func timeSeries(name string, s models.Series, style chart.Style) chart.TimeSeries {
	xs := make([]time.Time, 0, s.Len())
	ys := make([]float64, 0, s.Len())
	epoch := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		d := s.DateAt(i)
		if d.IsZero() {
			d = epoch.AddDate(0, 0, i)
		}
		xs = append(xs, d)
		ys = append(ys, v)
	}
	return chart.TimeSeries{Name: name, Style: style, XValues: xs, YValues: ys}
}

func percentFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.1f%%", f*100)
	}
	return ""
}

func renderLineChart(title string, lines []chart.Series, yFormatter chart.ValueFormatter) ([]byte, error) {
	points := 0
	for _, l := range lines {
		if ts, ok := l.(chart.TimeSeries); ok {
			points = len(ts.XValues)
			break
		}
	}
	if points < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", points)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: yFormatter,
		},
		Series: lines,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
