package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bobmcallan/tearsheet/internal/models"
)

// printer renders numbers with thousands separators.
var printer = message.NewPrinter(language.English)

// formatPct renders a fraction as a percentage to two decimals; NaN and
// infinities render as "-".
func formatPct(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return printer.Sprintf("%.2f%%", v*100)
}

// formatRatio renders a dimensionless ratio to two decimals.
func formatRatio(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return printer.Sprintf("%.2f", v)
}

// formatDays renders a whole-number count.
func formatDays(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return printer.Sprintf("%.0f", v)
}

// labeledTable pairs a section heading with its table.
type labeledTable struct {
	Label string
	Table models.Table
}

// writeTables renders titled tables as aligned plain text.
func writeTables(w io.Writer, title string, sections []labeledTable) error {
	if title != "" {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", title, strings.Repeat("=", len(title))); err != nil {
			return err
		}
	}
	for _, sec := range sections {
		if _, err := fmt.Fprintf(w, "%s\n%s\n", sec.Label, strings.Repeat("-", len(sec.Label))); err != nil {
			return err
		}
		if err := writeAligned(w, sec.Table.Columns, sec.Table.Rows); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// writeAligned pads every column to its widest cell.
func writeAligned(w io.Writer, columns []string, rows [][]string) error {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			width := len(cell)
			if i < len(widths) {
				width = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", width, cell)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	if _, err := fmt.Fprintln(w, line(columns)); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, line(row)); err != nil {
			return err
		}
	}
	return nil
}
