package stats

import (
	"math"
	"sort"

	"github.com/bobmcallan/tearsheet/internal/models"
	"github.com/bobmcallan/tearsheet/internal/series"
)

// MonthlyReturns pivots a return series into one row per calendar year:
// twelve compounded month columns (NaN where the month has no
// observations) and a compounded EOY column. Rows are ordered by year
// ascending. An undated series yields no rows.
func MonthlyReturns(r models.Series) []models.MonthlyRow {
	if !r.HasDates() {
		return nil
	}

	monthly := series.AggregateReturns(r, series.PeriodMonthly)
	yearly := series.AggregateReturns(r, series.PeriodYearly)

	rows := make(map[int]*models.MonthlyRow)
	var years []int

	get := func(y int) *models.MonthlyRow {
		row, ok := rows[y]
		if !ok {
			row = &models.MonthlyRow{Year: y, EOY: math.NaN()}
			for m := range row.Months {
				row.Months[m] = math.NaN()
			}
			rows[y] = row
			years = append(years, y)
		}
		return row
	}

	for i, d := range monthly.Dates {
		row := get(d.Year())
		row.Months[int(d.Month())-1] = monthly.Values[i]
	}
	for i, d := range yearly.Dates {
		get(d.Year()).EOY = yearly.Values[i]
	}

	sort.Ints(years)
	out := make([]models.MonthlyRow, 0, len(years))
	for _, y := range years {
		out = append(out, *rows[y])
	}
	return out
}
