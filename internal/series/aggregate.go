package series

import (
	"fmt"
	"math"
	"time"

	"github.com/bobmcallan/tearsheet/internal/models"
)

// Period is a calendar resampling bucket.
type Period string

const (
	PeriodNone      Period = ""
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

// GroupKeyFunc maps an observation date to a bucket key.
type GroupKeyFunc func(t time.Time) string

// GroupReturns compounds returns within each bucket produced by key:
// Π(1+r)-1 per group, never a plain sum. Buckets keep first-appearance
// order, which for a sorted series is chronological. Each bucket is
// indexed by its last observation date.
func GroupReturns(returns models.Series, key GroupKeyFunc) models.Series {
	out := models.Series{Name: returns.Name}
	if returns.Empty() || !returns.HasDates() {
		return out
	}

	type bucket struct {
		logSum float64
		last   time.Time
		bad    bool
	}
	var order []string
	buckets := make(map[string]*bucket)

	for i, v := range returns.Values {
		k := key(returns.Dates[i])
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			order = append(order, k)
		}
		b.last = returns.Dates[i]
		if math.IsNaN(v) || v <= -1 {
			b.bad = true
			continue
		}
		b.logSum += math.Log1p(v)
	}

	for _, k := range order {
		b := buckets[k]
		v := math.Expm1(b.logSum)
		if b.bad {
			v = math.NaN()
		}
		out.Dates = append(out.Dates, b.last)
		out.Values = append(out.Values, v)
	}
	return out
}

// AggregateReturns resamples a return series into a coarser one by
// compounding inside each calendar bucket. PeriodNone and PeriodDaily are
// identity (no resampling). An undated series is returned unchanged.
func AggregateReturns(returns models.Series, period Period) models.Series {
	if period == PeriodNone || period == PeriodDaily || !returns.HasDates() {
		return returns.Clone("")
	}

	var key GroupKeyFunc
	switch period {
	case PeriodWeekly:
		key = func(t time.Time) string {
			y, w := t.ISOWeek()
			return fmt.Sprintf("%04d-W%02d", y, w)
		}
	case PeriodMonthly:
		key = func(t time.Time) string { return t.Format("2006-01") }
	case PeriodQuarterly:
		key = func(t time.Time) string {
			return fmt.Sprintf("%04d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
		}
	case PeriodYearly:
		key = func(t time.Time) string { return t.Format("2006") }
	default:
		return returns.Clone("")
	}
	return GroupReturns(returns, key)
}

// InferPeriods derives the annualization factor from the date index using
// the mean spacing between observations: calendar-daily data maps to 365,
// business-daily to 252, weekly to 52, monthly to 12, quarterly to 4 and
// yearly to 1. Series without a usable index fall back to 252 trading days.
func InferPeriods(s models.Series) int {
	if !s.HasDates() || s.Len() < 2 {
		return 252
	}
	span := s.Dates[len(s.Dates)-1].Sub(s.Dates[0])
	meanDays := span.Hours() / 24 / float64(s.Len()-1)
	if meanDays <= 0 {
		return 252
	}

	raw := 365.25 / meanDays
	candidates := []int{365, 252, 52, 26, 12, 4, 1}
	best := candidates[0]
	bestDist := math.Abs(raw - float64(best))
	for _, c := range candidates[1:] {
		if d := math.Abs(raw - float64(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// ResolvePeriods returns periods when explicitly set (> 0), otherwise the
// inferred annualization factor for the series.
func ResolvePeriods(s models.Series, periods int) int {
	if periods > 0 {
		return periods
	}
	return InferPeriods(s)
}
