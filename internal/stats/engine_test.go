package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/naftapulse/internal/domain/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func series(start time.Time, prices ...float64) []models.Observation {
	out := make([]models.Observation, len(prices))
	for i, p := range prices {
		out[i] = models.Observation{Vendor: "V", Date: start.AddDate(0, 0, i), Price: p}
	}
	return out
}

func TestCompute_Empty(t *testing.T) {
	assert.Nil(t, Compute(nil, time.Now(), Options{}))
	assert.Nil(t, Compute([]models.Observation{}, time.Now(), Options{}))
}

func TestCompute_DailyChange(t *testing.T) {
	obs := series(day(2025, 3, 1), 100, 110, 105)
	snap := Compute(obs, day(2025, 3, 3), Options{})
	require.NotNil(t, snap)

	assert.True(t, snap.Daily.Available)
	assert.Equal(t, -5.0, snap.Daily.Delta)
	require.NotNil(t, snap.Daily.Percent)
	assert.InDelta(t, -4.545454, *snap.Daily.Percent, 1e-5)
	assert.Equal(t, 105.0, snap.Current.Price)
	assert.Equal(t, day(2025, 3, 3), snap.Current.Date)
	assert.NoError(t, snap.Err())
}

func TestCompute_SingleObservation(t *testing.T) {
	obs := series(day(2025, 3, 1), 100)
	snap := Compute(obs, day(2025, 3, 1), Options{LocationFallback: "Buenos Aires"})
	require.NotNil(t, snap)

	assert.False(t, snap.Daily.Available)
	assert.Nil(t, snap.Daily.Percent)
	assert.Equal(t, 0.0, snap.Monthly.Delta)
	assert.Equal(t, 0, snap.UpdateCount)
	assert.Equal(t, "Buenos Aires", snap.Location)
	assert.Equal(t, 100.0, snap.YearMax.Price)
	assert.Equal(t, 100.0, snap.YearMin.Price)
}

func TestCompute_MonthlyScansBackward(t *testing.T) {
	obs := []models.Observation{
		{Date: day(2025, 1, 1), Price: 100},
		{Date: day(2025, 1, 11), Price: 110},
		{Date: day(2025, 2, 5), Price: 120},
		{Date: day(2025, 2, 20), Price: 130},
	}
	snap := Compute(obs, day(2025, 2, 20), Options{})
	require.NotNil(t, snap)

	// target is 2025-01-21: the nearest observation not after it is 2025-01-11.
	assert.Equal(t, 110.0, snap.Monthly.Baseline)
	assert.Equal(t, 20.0, snap.Monthly.Delta)
	assert.Equal(t, day(2025, 1, 11), snap.Monthly.Since)
}

func TestCompute_MonthlyExactBoundaryAndTimeOfDay(t *testing.T) {
	art := time.FixedZone("ART", -3*60*60)
	obs := []models.Observation{
		{Date: time.Date(2025, 1, 1, 23, 0, 0, 0, art), Price: 100},
		{Date: time.Date(2025, 1, 31, 1, 0, 0, 0, art), Price: 150},
	}
	snap := Compute(obs, day(2025, 1, 31), Options{})
	require.NotNil(t, snap)
	assert.Equal(t, 100.0, snap.Monthly.Baseline)
}

func TestCompute_MonthlyFallsBackToFirst(t *testing.T) {
	obs := series(day(2025, 3, 1), 100, 101, 102, 103)
	snap := Compute(obs, day(2025, 3, 4), Options{})
	require.NotNil(t, snap)
	assert.Equal(t, 100.0, snap.Monthly.Baseline)
	assert.Equal(t, 3.0, snap.Monthly.Delta)
}

func TestCompute_YearBaseAndFallback(t *testing.T) {
	obs := []models.Observation{
		{Date: day(2024, 11, 1), Price: 900},
		{Date: day(2024, 12, 1), Price: 1000},
		{Date: day(2025, 1, 2), Price: 1100},
		{Date: day(2025, 1, 3), Price: 1050},
	}

	t.Run("current year present", func(t *testing.T) {
		snap := Compute(obs, day(2025, 6, 1), Options{})
		require.NotNil(t, snap)
		assert.False(t, snap.YearFallback)
		assert.Equal(t, 2, snap.BaseSize)
		assert.Equal(t, 1100.0, snap.YearMax.Price)
		assert.Equal(t, 1050.0, snap.YearMin.Price)
		assert.Equal(t, -50.0, snap.Total.Delta)
	})

	t.Run("new year without records", func(t *testing.T) {
		snap := Compute(obs, day(2026, 1, 1), Options{})
		require.NotNil(t, snap)
		assert.True(t, snap.YearFallback)
		assert.Equal(t, 4, snap.BaseSize)
		assert.Equal(t, 1100.0, snap.YearMax.Price)
		assert.Equal(t, 900.0, snap.YearMin.Price)
		assert.Equal(t, day(2024, 11, 1), snap.YearMin.Date)
		assert.Equal(t, 150.0, snap.Total.Delta)
		assert.Equal(t, 3, snap.UpdateCount)
	})
}

func TestCompute_ExtremaTiesGoToEarliest(t *testing.T) {
	obs := series(day(2025, 5, 1), 10, 12, 8, 12, 8)
	snap := Compute(obs, day(2025, 5, 5), Options{})
	require.NotNil(t, snap)
	assert.Equal(t, day(2025, 5, 2), snap.YearMax.Date)
	assert.Equal(t, day(2025, 5, 3), snap.YearMin.Date)
}

func TestCompute_TotalPercentSign(t *testing.T) {
	cases := []struct {
		name   string
		prices []float64
	}{
		{name: "increase", prices: []float64{100, 120}},
		{name: "decrease", prices: []float64{100, 80}},
		{name: "flat", prices: []float64{100, 100}},
		{name: "negative baseline", prices: []float64{-10, 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := Compute(series(day(2025, 1, 1), tc.prices...), day(2025, 1, 2), Options{})
			require.NotNil(t, snap)
			require.NotNil(t, snap.Total.Percent)
			delta := snap.Total.Delta
			pct := *snap.Total.Percent
			if tc.prices[0] > 0 {
				assert.Equal(t, math.Signbit(delta), math.Signbit(pct))
			}
			assert.False(t, math.IsNaN(pct))
		})
	}
}

func TestCompute_ZeroBaseline(t *testing.T) {
	snap := Compute(series(day(2025, 1, 1), 0, 10), day(2025, 1, 2), Options{})
	require.NotNil(t, snap)

	assert.Equal(t, 10.0, snap.Total.Delta)
	assert.Nil(t, snap.Total.Percent)
	assert.ErrorIs(t, snap.Total.PercentErr, ErrZeroBaseline)
	assert.ErrorIs(t, snap.Daily.PercentErr, ErrZeroBaseline)
	assert.ErrorIs(t, snap.Err(), ErrZeroBaseline)
}

func TestCompute_UpdateCountModes(t *testing.T) {
	obs := series(day(2025, 2, 1), 10, 10, 11, 11, 12, 10)
	obs[2].HasVariation, obs[2].Variation = true, 10
	obs[3].HasVariation, obs[3].Variation = true, 0

	assert.Equal(t, 3, Compute(obs, day(2025, 2, 6), Options{}).UpdateCount)
	assert.Equal(t, 1, Compute(obs, day(2025, 2, 6), Options{UpdateCount: CountVariationColumn}).UpdateCount)

	plain := series(day(2025, 2, 1), 10, 11)
	assert.Equal(t, 1, Compute(plain, day(2025, 2, 2), Options{UpdateCount: CountVariationColumn}).UpdateCount,
		"falls back to price changes without a variation column")
}

func TestPercent(t *testing.T) {
	p, err := Percent(-5, 110)
	require.NoError(t, err)
	assert.InDelta(t, -4.5454545, p, 1e-6)

	_, err = Percent(1, 0)
	assert.ErrorIs(t, err, ErrZeroBaseline)
}

func TestSeries(t *testing.T) {
	obs := series(day(2025, 1, 1), 1, 2, 3, 4, 5)

	all := Series(obs, 0)
	require.Len(t, all, 5)
	assert.Equal(t, models.SeriesPoint{Label: "2025-01-01", Value: 1}, all[0])

	last := Series(obs, 2)
	require.Len(t, last, 3)
	assert.Equal(t, "2025-01-03", last[0].Label)

	assert.Empty(t, Series(nil, 7))
}
