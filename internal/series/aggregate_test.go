package series

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tearsheet/internal/models"
)

func TestGroupReturns_ByYear(t *testing.T) {
	returns := dailySeries(0.01, -0.02, 0.03, -0.01, 0.02, 0.01, -0.03, 0.02, 0.01, -0.02)

	result := GroupReturns(returns, func(d time.Time) string { return d.Format("2006") })

	require.Equal(t, 1, result.Len()) // all dates are in 2020
	expected := 1.01*0.98*1.03*0.99*1.02*1.01*0.97*1.02*1.01*0.98 - 1
	assert.InDelta(t, expected, result.Values[0], 1e-9)
}

func TestGroupReturns_CompoundsNotSums(t *testing.T) {
	returns := dailySeries(0.1, 0.1)

	result := GroupReturns(returns, func(time.Time) string { return "all" })

	require.Equal(t, 1, result.Len())
	assert.InDelta(t, 0.21, result.Values[0], 1e-12) // 1.1*1.1-1, not 0.2
}

func TestAggregateReturns(t *testing.T) {
	start := time.Date(2020, 1, 30, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 6)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i) // spans Jan 30 - Feb 4
	}
	returns := models.NewSeries("r", dates, []float64{0.01, 0.01, 0.01, 0.01, 0.01, 0.01})

	t.Run("none is identity", func(t *testing.T) {
		result := AggregateReturns(returns, PeriodNone)
		assert.Equal(t, returns.Values, result.Values)
		assert.Equal(t, returns.Dates, result.Dates)
	})

	t.Run("monthly buckets by calendar month", func(t *testing.T) {
		result := AggregateReturns(returns, PeriodMonthly)
		require.Equal(t, 2, result.Len())
		assert.InDelta(t, math.Pow(1.01, 2)-1, result.Values[0], 1e-12) // Jan 30-31
		assert.InDelta(t, math.Pow(1.01, 4)-1, result.Values[1], 1e-12) // Feb 1-4
		assert.Equal(t, time.January, result.Dates[0].Month())
		assert.Equal(t, time.February, result.Dates[1].Month())
	})

	t.Run("quarterly and yearly collapse to one bucket", func(t *testing.T) {
		for _, p := range []Period{PeriodQuarterly, PeriodYearly} {
			result := AggregateReturns(returns, p)
			require.Equal(t, 1, result.Len())
			assert.InDelta(t, math.Pow(1.01, 6)-1, result.Values[0], 1e-12)
		}
	})

	t.Run("undated series unchanged", func(t *testing.T) {
		bare := models.FromValues("r", []float64{0.01, 0.02})
		result := AggregateReturns(bare, PeriodMonthly)
		assert.Equal(t, bare.Values, result.Values)
	})
}

func TestInferPeriods(t *testing.T) {
	tests := []struct {
		name     string
		series   models.Series
		expected int
	}{
		{
			name:     "calendar daily",
			series:   dailySeries(make([]float64, 10)...),
			expected: 365,
		},
		{
			name:     "weekly",
			series:   spacedSeries(7, 10),
			expected: 52,
		},
		{
			name:     "monthly",
			series:   spacedSeries(30, 12),
			expected: 12,
		},
		{
			name:     "business daily",
			series:   businessDailySeries(30),
			expected: 252,
		},
		{
			name:     "undated falls back to trading days",
			series:   models.FromValues("r", []float64{0.01, 0.02}),
			expected: 252,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferPeriods(tt.series))
		})
	}
}

func TestResolvePeriods(t *testing.T) {
	s := dailySeries(0.01, 0.02)
	assert.Equal(t, 100, ResolvePeriods(s, 100)) // explicit wins
	assert.Equal(t, 365, ResolvePeriods(s, 0))
}

// spacedSeries builds a series with a fixed day gap between observations.
func spacedSeries(gapDays, count int) models.Series {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, count)
	values := make([]float64, count)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i*gapDays)
	}
	return models.NewSeries("spaced", dates, values)
}

// businessDailySeries builds a weekday-only daily series.
func businessDailySeries(count int) models.Series {
	d := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	var dates []time.Time
	for len(dates) < count {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			dates = append(dates, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return models.NewSeries("bdaily", dates, make([]float64, count))
}
