package series

import (
	"fmt"
	"math"
	"time"

	"github.com/bobmcallan/tearsheet/internal/models"
)

// RollingStdev computes a windowed sample standard deviation with a strict
// warm-up: the first window-1 entries are NaN, as is any window containing
// a NaN. Output length equals input length.
func RollingStdev(returns models.Series, window int) models.Series {
	out := returns.Clone("")
	if window < 1 {
		for i := range out.Values {
			out.Values[i] = math.NaN()
		}
		return out
	}

	src := returns.Values
	for i := range out.Values {
		if i < window-1 {
			out.Values[i] = math.NaN()
			continue
		}
		out.Values[i] = sampleStdev(src[i-window+1 : i+1])
	}
	return out
}

// ExponentialStdev computes the exponentially-weighted rolling standard
// deviation with span = window and minimum periods = window: entries
// before the warm-up are NaN by requirement, not approximation. Weighting
// and bias correction match the conventional adjusted/unbiased EW moments.
func ExponentialStdev(returns models.Series, window int) models.Series {
	out := returns.Clone("")
	n := out.Len()
	if window < 1 {
		window = 1
	}
	alpha := 2.0 / (float64(window) + 1)

	for t := 0; t < n; t++ {
		if t+1 < window {
			out.Values[t] = math.NaN()
			continue
		}

		var wSum, w2Sum, mean float64
		bad := false
		for i := 0; i <= t; i++ {
			w := math.Pow(1-alpha, float64(t-i))
			v := returns.Values[i]
			if math.IsNaN(v) {
				bad = true
				break
			}
			wSum += w
			w2Sum += w * w
			mean += w * v
		}
		if bad || wSum == 0 {
			out.Values[t] = math.NaN()
			continue
		}
		mean /= wSum

		var biased float64
		for i := 0; i <= t; i++ {
			w := math.Pow(1-alpha, float64(t-i))
			d := returns.Values[i] - mean
			biased += w * d * d
		}
		biased /= wSum

		denom := wSum*wSum - w2Sum
		if denom <= 0 {
			out.Values[t] = math.NaN()
			continue
		}
		out.Values[t] = math.Sqrt(biased * wSum * wSum / denom)
	}
	return out
}

// MultiShift builds a frame holding the series shifted 0..shift-1 periods,
// the lagged views needed by autocorrelation and streak style metrics.
// Column 0 is the unshifted series; shifted columns are NaN-padded at the
// front and named <name>1, <name>2, ...
func MultiShift(s models.Series, shift int) models.Frame {
	if shift < 1 {
		shift = 1
	}
	name := s.Name
	if name == "" {
		name = "col"
	}

	f := models.Frame{}
	if s.HasDates() {
		f.Dates = make([]time.Time, len(s.Dates))
		copy(f.Dates, s.Dates)
	}
	for k := 0; k < shift; k++ {
		col := make([]float64, s.Len())
		for i := range col {
			if i < k {
				col[i] = math.NaN()
			} else {
				col[i] = s.Values[i-k]
			}
		}
		label := name
		if k > 0 {
			label = fmt.Sprintf("%s%d", name, k)
		}
		f.Columns = append(f.Columns, label)
		f.Values = append(f.Values, col)
	}
	return f
}

// sampleStdev is the ddof=1 standard deviation; NaN for n < 2 or any NaN
// member.
func sampleStdev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		if math.IsNaN(v) {
			return math.NaN()
		}
		sum += v
	}
	mean := sum / float64(n)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1))
}
