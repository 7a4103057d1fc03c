// Package series provides the normalization layer: it converts
// heterogeneous caller input (price levels or period returns, dated or
// bare, with or without a risk-free rate) into canonical, aligned,
// gap-free return series for the metrics layer.
package series

import (
	"math"

	"github.com/bobmcallan/tearsheet/internal/models"
)

// Kind tells the normalization layer how to interpret raw values.
type Kind int

const (
	// KindAuto classifies by heuristic (see LooksLikePrices).
	KindAuto Kind = iota
	// KindPrices forces price-level interpretation.
	KindPrices
	// KindReturns forces period-return interpretation.
	KindReturns
)

// LooksLikePrices reports whether unlabeled values look like price levels:
// every value non-negative and at least one value above 1. A price series
// trading entirely below 1 is classified as returns; callers with such
// data must pass KindPrices explicitly.
func LooksLikePrices(s models.Series) bool {
	if s.Empty() {
		return false
	}
	max := math.Inf(-1)
	seen := false
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 {
			return false
		}
		if v > max {
			max = v
		}
		seen = true
	}
	return seen && max > 1
}

// PrepareReturns produces a canonical return series. Price-like input is
// converted via percent-change with a 0.0 fill for the first element;
// return-like input passes through. Remaining gaps are filled with 0.0.
// When rf is non-zero it is subtracted from every period, deannualized as
// (1+rf)^(1/periods)-1 when periods > 0 and as-is otherwise.
func PrepareReturns(s models.Series, kind Kind, rf float64, periods int) models.Series {
	out := s.Clone("")

	isPrices := kind == KindPrices || (kind == KindAuto && LooksLikePrices(s))
	if isPrices {
		out = ToReturns(out)
	}

	for i, v := range out.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out.Values[i] = 0
		}
	}

	if rf != 0 {
		out = ExcessReturns(out, rf, periods)
	}
	return out
}

// PreparePrices produces a growth curve from arbitrary input: price-like
// values pass through, return-like values are compounded at the given base.
func PreparePrices(s models.Series, kind Kind, base float64) models.Series {
	isReturns := kind == KindReturns || (kind == KindAuto && !LooksLikePrices(s))
	if isReturns {
		return ToPrices(s, base)
	}
	return s.Clone("")
}
