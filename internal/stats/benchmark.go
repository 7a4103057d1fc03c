package stats

import (
	"math"

	"github.com/bobmcallan/tearsheet/internal/models"
	"github.com/bobmcallan/tearsheet/internal/series"
)

// Benchmark-relative metrics. All of them assume the two series are
// already aligned (see series.Align); none re-align internally. Pairs
// with a NaN on either side are skipped.

// Correlation returns the Pearson correlation between strategy and
// benchmark returns.
func Correlation(r, b models.Series) float64 {
	x, y := pairedValid(r, b)
	sx, sy := stdev(x), stdev(y)
	if math.IsNaN(sx) || sx == 0 || sy == 0 {
		return math.NaN()
	}
	return covariance(x, y) / (sx * sy)
}

// Beta returns cov(r, b) / var(b).
func Beta(r, b models.Series) float64 {
	x, y := pairedValid(r, b)
	sy := stdev(y)
	if math.IsNaN(sy) || sy == 0 {
		return math.NaN()
	}
	return covariance(x, y) / (sy * sy)
}

// Alpha returns the annualized intercept,
// (mean(r) - beta*mean(b)) * periods.
func Alpha(r, b models.Series, periods int) float64 {
	beta := Beta(r, b)
	if math.IsNaN(beta) {
		return math.NaN()
	}
	ppy := series.ResolvePeriods(r, periods)
	x, y := pairedValid(r, b)
	return (mean(x) - beta*mean(y)) * float64(ppy)
}

// RSquared returns the squared correlation.
func RSquared(r, b models.Series) float64 {
	c := Correlation(r, b)
	return c * c
}

// InformationRatio returns mean(r-b) / stdev(r-b), unannualized.
func InformationRatio(r, b models.Series) float64 {
	x, y := pairedValid(r, b)
	diff := make([]float64, len(x))
	for i := range x {
		diff[i] = x[i] - y[i]
	}
	sd := stdev(diff)
	if math.IsNaN(sd) || sd == 0 {
		return math.NaN()
	}
	return mean(diff) / sd
}

func pairedValid(r, b models.Series) ([]float64, []float64) {
	n := r.Len()
	if b.Len() < n {
		n = b.Len()
	}
	x := make([]float64, 0, n)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(r.Values[i]) || math.IsNaN(b.Values[i]) {
			continue
		}
		x = append(x, r.Values[i])
		y = append(y, b.Values[i])
	}
	return x, y
}

// covariance is the sample covariance (ddof=1); NaN for n < 2.
func covariance(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	mx, my := mean(x), mean(y)
	var sum float64
	for i := range x {
		sum += (x[i] - mx) * (y[i] - my)
	}
	return sum / float64(len(x)-1)
}
