package report

import (
	"encoding/base64"
	"html/template"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/tearsheet/internal/common"
	"github.com/bobmcallan/tearsheet/internal/models"
)

// htmlData is the template payload for the HTML tear sheet.
type htmlData struct {
	Title      string
	Generated  string
	ReportID   string
	Version    string
	Parameters [][2]string
	Metrics    models.Table
	Drawdowns  models.Table
	Monthly    models.Table
	Charts     []htmlChart
}

type htmlChart struct {
	Label string
	PNG   string // base64-encoded
}

// HTML writes a self-contained tear sheet: parameters, metrics table,
// drawdown and monthly tables, and embedded PNG charts. Charts that
// cannot render (too few points) are skipped, not fatal.
func (s *Service) HTML(w io.Writer, strategy models.Series, benchmark *models.Series, opts Options) error {
	strat, bench, hasBench := s.prepare(strategy, benchmark, opts)

	data := htmlData{
		Title:     opts.Title,
		Generated: time.Now().Format("2006-01-02 15:04"),
		ReportID:  uuid.NewString(),
		Version:   common.GetFullVersion(),
		Metrics:   s.Metrics(strategy, benchmark, opts),
		Drawdowns: s.DrawdownTable(strategy, opts),
		Monthly:   s.MonthlyTable(strategy, opts),
	}

	data.Parameters = [][2]string{
		{"Strategy", nameOr(strat.Name, "Strategy")},
		{"Observations", formatDays(float64(strat.Len()))},
		{"Risk-Free Rate", formatPct(opts.RiskFreeRate)},
		{"Confidence", formatPct(opts.Confidence)},
		{"Rolling Window", formatDays(float64(opts.RollingWindow))},
	}
	if hasBench {
		data.Parameters = append(data.Parameters, [2]string{"Benchmark", nameOr(bench.Name, "Benchmark")})
	}

	var benchPtr *models.Series
	if hasBench {
		benchPtr = &bench
	}
	addChart := func(label string, png []byte, err error) {
		if err != nil {
			s.logger.Warn().Err(err).Str("chart", label).Msg("Chart skipped")
			return
		}
		data.Charts = append(data.Charts, htmlChart{
			Label: label,
			PNG:   base64.StdEncoding.EncodeToString(png),
		})
	}

	png, err := RenderEquityChart(strat, benchPtr)
	addChart("Cumulative Growth", png, err)
	png, err = RenderDrawdownChart(strat)
	addChart("Drawdown", png, err)
	png, err = RenderRollingVolatilityChart(strat, opts.RollingWindow, opts.Periods)
	addChart("Rolling Volatility", png, err)

	s.logger.Info().
		Str("report_id", data.ReportID).
		Int("metrics", len(data.Metrics.Rows)).
		Int("charts", len(data.Charts)).
		Msg("Rendering HTML report")

	return htmlTemplate.Execute(w, data)
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

var htmlTemplate = template.Must(template.New("tearsheet").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 2rem auto; max-width: 960px; color: #111827; }
h1 { border-bottom: 2px solid #2563eb; padding-bottom: .3rem; }
h2 { margin-top: 2rem; color: #374151; }
table { border-collapse: collapse; width: 100%; font-size: .875rem; }
th, td { border: 1px solid #e5e7eb; padding: .35rem .6rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
th { background: #f3f4f6; }
tr:nth-child(even) { background: #f9fafb; }
img { max-width: 100%; margin: .5rem 0; }
dl { display: grid; grid-template-columns: max-content auto; gap: .2rem 1rem; }
dt { font-weight: 600; }
footer { margin-top: 3rem; font-size: .75rem; color: #6b7280; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Generated {{.Generated}}</p>

<h2>Parameters</h2>
<dl>
{{- range .Parameters}}
<dt>{{index . 0}}</dt><dd>{{index . 1}}</dd>
{{- end}}
</dl>

<h2>Performance Metrics</h2>
{{template "table" .Metrics}}

{{- range .Charts}}
<h2>{{.Label}}</h2>
<img src="data:image/png;base64,{{.PNG}}" alt="{{.Label}}">
{{- end}}

<h2>Drawdown Details</h2>
{{template "table" .Drawdowns}}

<h2>Monthly Returns</h2>
{{template "table" .Monthly}}

<footer>Report {{.ReportID}} &middot; tearsheet {{.Version}}</footer>
</body>
</html>
{{define "table"}}<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>{{end}}`))
