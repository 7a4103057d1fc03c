package stats

import (
	"math"

	"github.com/bobmcallan/tearsheet/internal/models"
)

// ValueAtRisk returns the parametric (variance-covariance) VaR of the
// return distribution at the given confidence level: the normal quantile
// at 1-confidence with the sample mean and standard deviation. For a
// typical return series the result is negative. NaN for n < 2.
func ValueAtRisk(r models.Series, confidence float64) float64 {
	valid := r.Valid()
	sd := stdev(valid)
	if math.IsNaN(sd) {
		return math.NaN()
	}
	if confidence > 1 {
		confidence = confidence / 100
	}
	return mean(valid) + normInv(1-confidence)*sd
}

// CVaR returns the conditional VaR (expected shortfall): the mean of
// returns below the VaR cutoff, falling back to the cutoff itself when no
// observation breaches it.
func CVaR(r models.Series, confidence float64) float64 {
	cutoff := ValueAtRisk(r, confidence)
	if math.IsNaN(cutoff) {
		return math.NaN()
	}
	var sum float64
	n := 0
	for _, v := range r.Valid() {
		if v < cutoff {
			sum += v
			n++
		}
	}
	if n == 0 {
		return cutoff
	}
	return sum / float64(n)
}

// normInv is the standard normal quantile function (inverse CDF) via the
// Beasley-Springer-Moro approximation, accurate to roughly 1e-9 over the
// open unit interval.
func normInv(p float64) float64 {
	if p <= 0 || p >= 1 {
		return math.NaN()
	}

	a := [6]float64{
		-3.969683028665376e+01,
		2.209460984245205e+02,
		-2.759285104469687e+02,
		1.383577518672690e+02,
		-3.066479806614716e+01,
		2.506628277459239e+00,
	}
	b := [5]float64{
		-5.447609879822406e+01,
		1.615858368580409e+02,
		-1.556989798598866e+02,
		6.680131188771972e+01,
		-1.328068155288572e+01,
	}
	c := [6]float64{
		-7.784894002430293e-03,
		-3.223964580411365e-01,
		-2.400758277161838e+00,
		-2.549732539343734e+00,
		4.374664141464968e+00,
		2.938163982698783e+00,
	}
	d := [4]float64{
		7.784695709041462e-03,
		3.224671290700398e-01,
		2.445134137142996e+00,
		3.754408661907416e+00,
	}

	const pLow = 0.02425
	const pHigh = 1 - pLow

	switch {
	case p < pLow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p <= pHigh:
		q := p - 0.5
		r := q * q
		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	default:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}
}
