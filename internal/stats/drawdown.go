package stats

import (
	"math"

	"github.com/bobmcallan/tearsheet/internal/models"
	"github.com/bobmcallan/tearsheet/internal/series"
)

// DrawdownCurve returns the running ratio of cumulative growth to its
// running maximum, minus 1. Always <= 0; exactly 0 at each new peak.
func DrawdownCurve(r models.Series) models.Series {
	prices := series.ToPrices(r, 1)
	out := prices.Clone("")
	peak := math.Inf(-1)
	for i, p := range out.Values {
		if math.IsNaN(p) {
			out.Values[i] = math.NaN()
			continue
		}
		if p > peak {
			peak = p
		}
		out.Values[i] = p/peak - 1
	}
	return out
}

// MaxDrawdown returns the most negative value of the drawdown curve, or
// NaN for an empty series.
func MaxDrawdown(r models.Series) float64 {
	return DrawdownCurve(r).Min()
}

// AvgDrawdown returns the mean of the below-zero portion of the drawdown
// curve.
func AvgDrawdown(r models.Series) float64 {
	var sum float64
	n := 0
	for _, v := range DrawdownCurve(r).Values {
		if !math.IsNaN(v) && v < 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// UlcerIndex returns sqrt(sum(drawdown^2)/(n-1)).
func UlcerIndex(r models.Series) float64 {
	dd := DrawdownCurve(r).Valid()
	if len(dd) < 2 {
		return math.NaN()
	}
	var sq float64
	for _, v := range dd {
		sq += v * v
	}
	return math.Sqrt(sq / float64(len(dd)-1))
}

// Calmar returns CAGR over the absolute max drawdown.
func Calmar(r models.Series, periods int) float64 {
	mdd := MaxDrawdown(r)
	if math.IsNaN(mdd) || mdd == 0 {
		return math.NaN()
	}
	return CAGR(r, periods) / math.Abs(mdd)
}

// RecoveryFactor returns total compounded return over the absolute max
// drawdown.
func RecoveryFactor(r models.Series) float64 {
	mdd := MaxDrawdown(r)
	if math.IsNaN(mdd) || mdd == 0 {
		return math.NaN()
	}
	return Comp(r) / math.Abs(mdd)
}

// DrawdownDetails scans the drawdown curve for contiguous below-zero runs
// and returns one episode per run, ordered by start ascending. An episode
// that has not recovered by the end of the series has a zero End time and
// measures its days through the last observation.
func DrawdownDetails(r models.Series) []models.DrawdownEpisode {
	dd := DrawdownCurve(r)
	var episodes []models.DrawdownEpisode

	inDD := false
	var cur models.DrawdownEpisode
	var startIdx int
	for i, v := range dd.Values {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 {
			if !inDD {
				inDD = true
				startIdx = i
				cur = models.DrawdownEpisode{
					Start:       dd.DateAt(i),
					Valley:      dd.DateAt(i),
					MaxDrawdown: v,
				}
			}
			if v < cur.MaxDrawdown {
				cur.MaxDrawdown = v
				cur.Valley = dd.DateAt(i)
			}
			continue
		}
		if inDD {
			cur.End = dd.DateAt(i)
			cur.Days = episodeDays(dd, startIdx, i)
			episodes = append(episodes, cur)
			inDD = false
		}
	}
	if inDD {
		cur.Days = episodeDays(dd, startIdx, dd.Len()-1)
		episodes = append(episodes, cur)
	}
	return episodes
}

// LongestDrawdownDays returns the duration of the longest episode.
func LongestDrawdownDays(r models.Series) int {
	longest := 0
	for _, e := range DrawdownDetails(r) {
		if e.Days > longest {
			longest = e.Days
		}
	}
	return longest
}

// episodeDays measures an episode in calendar days when the series is
// dated, in periods otherwise.
func episodeDays(dd models.Series, start, end int) int {
	if dd.HasDates() {
		return int(dd.Dates[end].Sub(dd.Dates[start]).Hours() / 24)
	}
	return end - start
}
