// Package stats is the metrics layer: stateless pure functions mapping
// canonical return series to risk and performance measures. Insufficient
// or nonsensical input yields NaN, never a panic or an error; callers
// aggregate metrics independently so one NaN does not block the rest.
package stats

import (
	"math"
	"sort"

	"github.com/bobmcallan/tearsheet/internal/models"
	"github.com/bobmcallan/tearsheet/internal/series"
)

// GeometricMean returns the per-period geometric mean, Π(1+r)^(1/n)-1.
func GeometricMean(r models.Series) float64 {
	n := 0
	logSum := 0.0
	for _, v := range r.Values {
		if math.IsNaN(v) {
			continue
		}
		if v <= -1 {
			return math.NaN()
		}
		logSum += math.Log1p(v)
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return math.Expm1(logSum / float64(n))
}

// Comp returns the total compounded return, Π(1+r)-1.
func Comp(r models.Series) float64 {
	if r.Empty() {
		return math.NaN()
	}
	logSum := 0.0
	for _, v := range r.Values {
		if math.IsNaN(v) {
			continue
		}
		if v <= -1 {
			return -1
		}
		logSum += math.Log1p(v)
	}
	return math.Expm1(logSum)
}

// Volatility returns the annualized sample standard deviation,
// stdev(r)*sqrt(periods). periods = 0 infers the factor from the date
// index (252 when there is none). NaN for fewer than 2 observations;
// exactly 0 for a constant series.
func Volatility(r models.Series, periods int) float64 {
	ppy := series.ResolvePeriods(r, periods)
	return stdev(r.Valid()) * math.Sqrt(float64(ppy))
}

// RollingVolatility returns the windowed annualized standard deviation,
// same length as the input with NaN padding through the warm-up.
func RollingVolatility(r models.Series, window, periods int) models.Series {
	ppy := series.ResolvePeriods(r, periods)
	out := series.RollingStdev(r, window)
	factor := math.Sqrt(float64(ppy))
	for i, v := range out.Values {
		out.Values[i] = v * factor
	}
	return out
}

// Sharpe returns mean(excess)/stdev(excess)*sqrt(periods), where excess
// subtracts the deannualized risk-free rate.
func Sharpe(r models.Series, rf float64, periods int) float64 {
	ppy := series.ResolvePeriods(r, periods)
	ex := series.ExcessReturns(r, rf, ppy).Valid()
	sd := stdev(ex)
	if math.IsNaN(sd) || sd == 0 {
		return math.NaN()
	}
	return mean(ex) / sd * math.Sqrt(float64(ppy))
}

// Sortino is Sharpe with downside deviation in the denominator:
// sqrt(mean(min(excess,0)^2)) over the full sample.
func Sortino(r models.Series, rf float64, periods int) float64 {
	ppy := series.ResolvePeriods(r, periods)
	ex := series.ExcessReturns(r, rf, ppy).Valid()
	if len(ex) < 2 {
		return math.NaN()
	}
	var sq float64
	for _, v := range ex {
		if v < 0 {
			sq += v * v
		}
	}
	downside := math.Sqrt(sq / float64(len(ex)))
	if downside == 0 {
		return math.NaN()
	}
	return mean(ex) / downside * math.Sqrt(float64(ppy))
}

// RollingSharpe returns the windowed Sharpe ratio, NaN-padded through the
// warm-up.
func RollingSharpe(r models.Series, rf float64, window, periods int) models.Series {
	ppy := series.ResolvePeriods(r, periods)
	ex := series.ExcessReturns(r, rf, ppy)
	out := ex.Clone("")
	factor := math.Sqrt(float64(ppy))
	for i := range out.Values {
		if i < window-1 || window < 2 {
			out.Values[i] = math.NaN()
			continue
		}
		win := ex.Values[i-window+1 : i+1]
		sd := stdev(win)
		if math.IsNaN(sd) || sd == 0 {
			out.Values[i] = math.NaN()
			continue
		}
		out.Values[i] = mean(win) / sd * factor
	}
	return out
}

// CAGR returns the compounded annual growth rate, (1+comp)^(365.25/days)-1
// with days the span of the date index. An undated series assumes one
// period per day at the annualization factor.
func CAGR(r models.Series, periods int) float64 {
	total := Comp(r)
	if math.IsNaN(total) || total <= -1 {
		return math.NaN()
	}

	var years float64
	if r.HasDates() && r.Len() > 1 {
		days := r.Dates[len(r.Dates)-1].Sub(r.Dates[0]).Hours() / 24
		years = days / 365.25
	} else {
		ppy := series.ResolvePeriods(r, periods)
		years = float64(r.Len()) / float64(ppy)
	}
	if years <= 0 {
		return math.NaN()
	}
	return math.Pow(1+total, 1/years) - 1
}

// WinRate returns count(r > 0) / count(valid observations).
func WinRate(r models.Series) float64 {
	valid := r.Valid()
	if len(valid) == 0 {
		return math.NaN()
	}
	wins := 0
	for _, v := range valid {
		if v > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(valid))
}

// Best returns the largest period return.
func Best(r models.Series) float64 { return r.Max() }

// Worst returns the smallest period return.
func Worst(r models.Series) float64 { return r.Min() }

// AvgReturn returns the mean of non-zero valid returns.
func AvgReturn(r models.Series) float64 {
	var sum float64
	n := 0
	for _, v := range r.Valid() {
		if v != 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// AvgWin returns the mean positive return.
func AvgWin(r models.Series) float64 {
	return meanWhere(r, func(v float64) bool { return v > 0 })
}

// AvgLoss returns the mean negative return.
func AvgLoss(r models.Series) float64 {
	return meanWhere(r, func(v float64) bool { return v < 0 })
}

// PayoffRatio returns avg win / abs(avg loss).
func PayoffRatio(r models.Series) float64 {
	loss := AvgLoss(r)
	if math.IsNaN(loss) || loss == 0 {
		return math.NaN()
	}
	return AvgWin(r) / math.Abs(loss)
}

// ProfitFactor returns sum(positive) / abs(sum(negative)).
func ProfitFactor(r models.Series) float64 {
	var pos, neg float64
	for _, v := range r.Valid() {
		if v > 0 {
			pos += v
		} else if v < 0 {
			neg += v
		}
	}
	if neg == 0 {
		return math.NaN()
	}
	return pos / math.Abs(neg)
}

// GainToPainRatio returns sum(r) / abs(sum(negative)).
func GainToPainRatio(r models.Series) float64 {
	var total, neg float64
	for _, v := range r.Valid() {
		total += v
		if v < 0 {
			neg += v
		}
	}
	if neg == 0 {
		return math.NaN()
	}
	return total / math.Abs(neg)
}

// KellyCriterion returns the Kelly fraction,
// win_rate - (1-win_rate)/payoff_ratio.
func KellyCriterion(r models.Series) float64 {
	payoff := PayoffRatio(r)
	wr := WinRate(r)
	if math.IsNaN(payoff) || payoff == 0 || math.IsNaN(wr) {
		return math.NaN()
	}
	return wr - (1-wr)/payoff
}

// Exposure returns the fraction of periods with a non-zero return.
func Exposure(r models.Series) float64 {
	valid := r.Valid()
	if len(valid) == 0 {
		return math.NaN()
	}
	active := 0
	for _, v := range valid {
		if v != 0 {
			active++
		}
	}
	return float64(active) / float64(len(valid))
}

// ConsecutiveWins returns the longest run of strictly positive returns.
func ConsecutiveWins(r models.Series) int {
	return longestRun(r, func(v float64) bool { return v > 0 })
}

// ConsecutiveLosses returns the longest run of strictly negative returns.
func ConsecutiveLosses(r models.Series) int {
	return longestRun(r, func(v float64) bool { return v < 0 })
}

// RiskReturnRatio returns mean/stdev without annualization.
func RiskReturnRatio(r models.Series) float64 {
	valid := r.Valid()
	sd := stdev(valid)
	if math.IsNaN(sd) || sd == 0 {
		return math.NaN()
	}
	return mean(valid) / sd
}

// TailRatio returns abs(quantile(q) / quantile(1-q)), default q of 0.95
// passed by callers.
func TailRatio(r models.Series, cutoff float64) float64 {
	valid := r.Valid()
	lo := Quantile(valid, 1-cutoff)
	hi := Quantile(valid, cutoff)
	if math.IsNaN(lo) || lo == 0 {
		return math.NaN()
	}
	return math.Abs(hi / lo)
}

// OutlierWinRatio returns the 99th percentile win over the mean win.
func OutlierWinRatio(r models.Series, quantile float64) float64 {
	var wins []float64
	for _, v := range r.Valid() {
		if v > 0 {
			wins = append(wins, v)
		}
	}
	m := mean(wins)
	if len(wins) == 0 || m == 0 {
		return math.NaN()
	}
	return Quantile(wins, quantile) / m
}

// OutlierLossRatio returns the 1st percentile loss over the mean loss.
func OutlierLossRatio(r models.Series, quantile float64) float64 {
	var losses []float64
	for _, v := range r.Valid() {
		if v < 0 {
			losses = append(losses, v)
		}
	}
	m := mean(losses)
	if len(losses) == 0 || m == 0 {
		return math.NaN()
	}
	return Quantile(losses, quantile) / m
}

// Outliers returns the observations above the given quantile of the
// distribution (upper tail).
func Outliers(r models.Series, quantile float64) models.Series {
	cut := Quantile(r.Valid(), quantile)
	return filterSeries(r, func(v float64) bool { return !math.IsNaN(cut) && v > cut })
}

// OutliersBothTails returns the observations beyond the quantile in either
// direction: above quantile or below 1-quantile.
func OutliersBothTails(r models.Series, quantile float64) models.Series {
	valid := r.Valid()
	hi := Quantile(valid, quantile)
	lo := Quantile(valid, 1-quantile)
	return filterSeries(r, func(v float64) bool {
		return (!math.IsNaN(hi) && v > hi) || (!math.IsNaN(lo) && v < lo)
	})
}

// Skew returns the bias-corrected sample skewness. NaN for n < 3.
func Skew(r models.Series) float64 {
	x := r.Valid()
	n := float64(len(x))
	if len(x) < 3 {
		return math.NaN()
	}
	m := mean(x)
	s := stdev(x)
	if s == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range x {
		z := (v - m) / s
		sum += z * z * z
	}
	return n / ((n - 1) * (n - 2)) * sum
}

// Kurtosis returns the bias-corrected excess kurtosis. NaN for n < 4.
func Kurtosis(r models.Series) float64 {
	x := r.Valid()
	n := float64(len(x))
	if len(x) < 4 {
		return math.NaN()
	}
	m := mean(x)
	s := stdev(x)
	if s == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range x {
		z := (v - m) / s
		sum += z * z * z * z
	}
	return n*(n+1)/((n-1)*(n-2)*(n-3))*sum - 3*(n-1)*(n-1)/((n-2)*(n-3))
}

// Quantile returns the q-th quantile of values using linear interpolation
// between order statistics.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 || math.IsNaN(q) {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := q * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	w := idx - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return math.NaN()
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1))
}

func meanWhere(r models.Series, keep func(float64) bool) float64 {
	var sum float64
	n := 0
	for _, v := range r.Valid() {
		if keep(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func longestRun(r models.Series, match func(float64) bool) int {
	best, run := 0, 0
	for _, v := range r.Values {
		if !math.IsNaN(v) && match(v) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

func filterSeries(r models.Series, keep func(float64) bool) models.Series {
	out := models.Series{Name: r.Name}
	for i, v := range r.Values {
		if math.IsNaN(v) || !keep(v) {
			continue
		}
		if r.HasDates() {
			out.Dates = append(out.Dates, r.Dates[i])
		}
		out.Values = append(out.Values, v)
	}
	return out
}
