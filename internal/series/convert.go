package series

import (
	"math"

	"github.com/bobmcallan/tearsheet/internal/models"
)

// ToReturns computes period-over-period percent change of a price series.
// The first element has no prior period and is filled with 0.0. A zero or
// NaN prior price yields NaN for that period.
func ToReturns(prices models.Series) models.Series {
	out := prices.Clone("")
	if out.Empty() {
		return out
	}

	prev := out.Values[0]
	out.Values[0] = 0
	for i := 1; i < len(out.Values); i++ {
		cur := out.Values[i]
		if math.IsNaN(prev) || prev == 0 {
			out.Values[i] = math.NaN()
		} else {
			out.Values[i] = cur/prev - 1
		}
		prev = cur
	}
	return out
}

// ToPrices compounds a return series into a growth curve anchored at base:
// price[t] = base * Π(1+r) for r up to and including t. The product is
// accumulated as a sum of log1p terms to avoid float drift over long
// horizons. A return <= -1 (total loss) poisons the curve with NaN from
// that point on, consistent with the NaN-on-nonsense convention.
func ToPrices(returns models.Series, base float64) models.Series {
	if base == 0 {
		base = 1
	}
	out := returns.Clone("")
	cum := 0.0
	for i, r := range out.Values {
		if math.IsNaN(r) || r <= -1 || math.IsNaN(cum) {
			if math.IsNaN(r) || r <= -1 {
				cum = math.NaN()
			}
			out.Values[i] = math.NaN()
			continue
		}
		cum += math.Log1p(r)
		out.Values[i] = base * math.Exp(cum)
	}
	return out
}

// CompSum returns the cumulative compounded return, Π(1+r)-1 at each step.
func CompSum(returns models.Series) models.Series {
	out := ToPrices(returns, 1)
	for i, v := range out.Values {
		if !math.IsNaN(v) {
			out.Values[i] = v - 1
		}
	}
	return out
}

// Rebase linearly rescales a price series so its first finite value equals
// base, preserving every percentage move.
func Rebase(prices models.Series, base float64) models.Series {
	out := prices.Clone("")
	first := math.NaN()
	for _, v := range out.Values {
		if !math.IsNaN(v) {
			first = v
			break
		}
	}
	if math.IsNaN(first) || first == 0 {
		return out
	}
	for i, v := range out.Values {
		out.Values[i] = v / first * base
	}
	return out
}

// LogReturns maps each period return to ln(1+r). Returns at or below -1
// produce NaN rather than an error.
func LogReturns(returns models.Series) models.Series {
	out := returns.Clone("")
	for i, r := range out.Values {
		if math.IsNaN(r) || r <= -1 {
			out.Values[i] = math.NaN()
			continue
		}
		out.Values[i] = math.Log1p(r)
	}
	return out
}
