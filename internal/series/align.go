package series

import (
	"math"

	"github.com/bobmcallan/tearsheet/internal/models"
)

// Align brings a strategy and benchmark series onto one index. With
// matchDates true the result index is the date intersection of both
// series, ascending. With matchDates false the series are paired
// positionally and truncated to the shorter length.
func Align(strategy, benchmark models.Series, matchDates bool) (models.Series, models.Series) {
	if !matchDates || !strategy.HasDates() || !benchmark.HasDates() {
		n := strategy.Len()
		if benchmark.Len() < n {
			n = benchmark.Len()
		}
		a := strategy.Clone("")
		b := benchmark.Clone("")
		a.Values = a.Values[:n]
		b.Values = b.Values[:n]
		if len(a.Dates) >= n {
			a.Dates = a.Dates[:n]
		}
		if len(b.Dates) >= n {
			b.Dates = b.Dates[:n]
		}
		return a, b
	}

	idx := make(map[int64]int, benchmark.Len())
	for i, d := range benchmark.Dates {
		idx[d.UnixNano()] = i
	}

	a := models.Series{Name: strategy.Name}
	b := models.Series{Name: benchmark.Name}
	for i, d := range strategy.Dates {
		j, ok := idx[d.UnixNano()]
		if !ok {
			continue
		}
		a.Dates = append(a.Dates, d)
		a.Values = append(a.Values, strategy.Values[i])
		b.Dates = append(b.Dates, d)
		b.Values = append(b.Values, benchmark.Values[j])
	}
	return a, b
}

// ExcessReturns subtracts the risk-free rate from every period. When
// periods > 0 rf is deannualized first: (1+rf)^(1/periods)-1. Otherwise
// rf is assumed already period-scaled and subtracted as-is.
func ExcessReturns(returns models.Series, rf float64, periods int) models.Series {
	out := returns.Clone("")
	if rf == 0 {
		return out
	}
	perPeriod := rf
	if periods > 0 {
		perPeriod = math.Pow(1+rf, 1/float64(periods)) - 1
	}
	for i, v := range out.Values {
		out.Values[i] = v - perPeriod
	}
	return out
}
