// Package csvfile loads date-keyed value series from CSV files. It is the
// input boundary for the statistics engine: rows may arrive in any order
// and with blank cells; the loaded series is sorted ascending with blanks
// as NaN.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/tearsheet/internal/models"
)

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// Load reads a CSV file and returns the named value column as a Series
// keyed by the date column. An empty valueColumn selects the first
// non-date column. Series name is the value column header.
func Load(path, dateColumn, valueColumn string) (models.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Series{}, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return models.Series{}, fmt.Errorf("read csv header %s: %w", path, err)
	}

	dateIdx, valueIdx := -1, -1
	for i, col := range header {
		name := strings.TrimSpace(col)
		switch {
		case strings.EqualFold(name, dateColumn):
			dateIdx = i
		case valueColumn != "" && strings.EqualFold(name, valueColumn):
			valueIdx = i
		case valueColumn == "" && valueIdx < 0 && !strings.EqualFold(name, dateColumn):
			valueIdx = i
		}
	}
	if dateIdx < 0 {
		return models.Series{}, fmt.Errorf("csv %s: date column %q not found", path, dateColumn)
	}
	if valueIdx < 0 {
		return models.Series{}, fmt.Errorf("csv %s: value column %q not found", path, valueColumn)
	}

	var dates []time.Time
	var values []float64
	line := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return models.Series{}, fmt.Errorf("read csv %s line %d: %w", path, line+1, err)
		}
		line++
		if dateIdx >= len(record) || valueIdx >= len(record) {
			continue
		}

		date, ok := parseDate(strings.TrimSpace(record[dateIdx]))
		if !ok {
			continue
		}
		dates = append(dates, date)
		values = append(values, parseValue(strings.TrimSpace(record[valueIdx])))
	}

	name := strings.TrimSpace(header[valueIdx])
	return models.NewSeries(name, dates, values), nil
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseValue maps blanks and unparseable cells to NaN rather than failing
// the load; the normalization layer fills or propagates them.
func parseValue(raw string) float64 {
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
