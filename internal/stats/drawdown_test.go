package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tearsheet/internal/models"
)

func TestDrawdownCurve(t *testing.T) {
	curve := DrawdownCurve(strategyReturns())

	require.Equal(t, 10, curve.Len())
	assert.Zero(t, curve.Values[0])
	assert.InDelta(t, -0.02, curve.Values[1], 1e-12)
	assert.Zero(t, curve.Values[2])
	assert.InDelta(t, -0.03, curve.Values[6], 1e-12)

	for i, v := range curve.Values {
		assert.LessOrEqual(t, v, 0.0, "index %d", i)
	}
}

func TestMaxDrawdown(t *testing.T) {
	assert.InDelta(t, -0.03, MaxDrawdown(strategyReturns()), 1e-12)
	assert.True(t, math.IsNaN(MaxDrawdown(models.Series{})))
}

func TestAvgDrawdown(t *testing.T) {
	assert.InDelta(t, -0.01533297999999994, AvgDrawdown(strategyReturns()), 1e-9)
	assert.True(t, math.IsNaN(AvgDrawdown(dailySeries(0.01, 0.02))))
}

func TestUlcerIndex(t *testing.T) {
	assert.InDelta(t, 0.014685640507101515, UlcerIndex(strategyReturns()), 1e-12)
}

func TestCalmar(t *testing.T) {
	assert.InDelta(t, 36.15229473396749, Calmar(strategyReturns(), 0), 1e-6)
	assert.True(t, math.IsNaN(Calmar(dailySeries(0.01, 0.02), 0)))
}

func TestRecoveryFactor(t *testing.T) {
	assert.InDelta(t, 0.6088296956117214, RecoveryFactor(strategyReturns()), 1e-12)
}

func TestDrawdownDetails(t *testing.T) {
	episodes := DrawdownDetails(strategyReturns())

	require.Len(t, episodes, 3)

	day := func(d int) time.Time {
		return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, day(2), episodes[0].Start)
	assert.Equal(t, day(2), episodes[0].Valley)
	assert.Equal(t, day(3), episodes[0].End)
	assert.InDelta(t, -0.02, episodes[0].MaxDrawdown, 1e-12)
	assert.Equal(t, 1, episodes[0].Days)
	assert.True(t, episodes[0].Recovered())

	assert.Equal(t, day(4), episodes[1].Start)
	assert.Equal(t, day(5), episodes[1].End)
	assert.InDelta(t, -0.01, episodes[1].MaxDrawdown, 1e-12)

	last := episodes[2]
	assert.Equal(t, day(7), last.Start)
	assert.Equal(t, day(7), last.Valley)
	assert.True(t, last.End.IsZero())
	assert.False(t, last.Recovered())
	assert.InDelta(t, -0.03, last.MaxDrawdown, 1e-12)
	assert.Equal(t, 3, last.Days)
}

func TestDrawdownDetails_NoDrawdowns(t *testing.T) {
	assert.Empty(t, DrawdownDetails(dailySeries(0.01, 0.02, 0.03)))
}

func TestLongestDrawdownDays(t *testing.T) {
	assert.Equal(t, 3, LongestDrawdownDays(strategyReturns()))
	assert.Zero(t, LongestDrawdownDays(dailySeries(0.01, 0.02)))
}

func TestDrawdownDetails_Undated(t *testing.T) {
	s := models.FromValues("x", []float64{0.01, -0.02, 0.03})
	episodes := DrawdownDetails(s)

	require.Len(t, episodes, 1)
	// Undated series measures episodes in periods.
	assert.Equal(t, 1, episodes[0].Days)
	assert.True(t, episodes[0].Start.IsZero())
}
