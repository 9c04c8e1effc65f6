package feature

import (
	"testing"
	"time"

	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyRows(pcode string, rainfall ...float64) []domain.FeatureRow {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]domain.FeatureRow, len(rainfall))
	for i, mm := range rainfall {
		rows[i] = domain.FeatureRow{Observation: domain.Observation{
			PCode:    pcode,
			Date:     base.AddDate(0, 0, i),
			Rainfall: mm,
		}}
	}
	return rows
}

func TestAnnotateAnomaliesWarmup(t *testing.T) {
	rows := dailyRows("KE001", 10, 10, 10, 10, 10, 10, 10, 10)

	annotateAnomalies(rows, 14, 3, 1e-3)

	for i := 0; i < 6; i++ {
		assert.Nil(t, rows[i].RainMean, "row %d", i)
		assert.Nil(t, rows[i].RainStd, "row %d", i)
		assert.Nil(t, rows[i].ZScore, "row %d", i)
		assert.Nil(t, rows[i].IsAnomaly, "row %d", i)
	}
	// Defined from the 7th observation (window/2) onward.
	require.NotNil(t, rows[6].RainMean)
	require.NotNil(t, rows[6].IsAnomaly)
	assert.Equal(t, 10.0, *rows[6].RainMean)
	assert.False(t, *rows[6].IsAnomaly)
}

func TestAnnotateAnomaliesFlatSeries(t *testing.T) {
	rows := dailyRows("KE001", 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5)

	annotateAnomalies(rows, 14, 3, 1e-3)

	for i := 6; i < len(rows); i++ {
		require.NotNil(t, rows[i].RainStd, "row %d", i)
		require.NotNil(t, rows[i].ZScore, "row %d", i)
		assert.Equal(t, 0.0, *rows[i].RainStd, "row %d", i)
		// (5-5)/(0+0.001) = 0, not a division error.
		assert.Equal(t, 0.0, *rows[i].ZScore, "row %d", i)
		assert.False(t, *rows[i].IsAnomaly, "row %d", i)
	}
}

func TestAnnotateAnomaliesFlagsSpike(t *testing.T) {
	rain := make([]float64, 20)
	for i := range rain {
		rain[i] = 10
	}
	rain[14] = 200
	rows := dailyRows("KE001", rain...)

	annotateAnomalies(rows, 14, 3, 1e-3)

	require.NotNil(t, rows[14].IsAnomaly)
	assert.True(t, *rows[14].IsAnomaly)
	require.NotNil(t, rows[14].ZScore)
	assert.Greater(t, *rows[14].ZScore, 3.0)

	// The day before the spike is unremarkable.
	require.NotNil(t, rows[13].IsAnomaly)
	assert.False(t, *rows[13].IsAnomaly)
}

func TestAnnotateAnomaliesResetsPerKey(t *testing.T) {
	first := dailyRows("KE001", 10, 10, 10, 10, 10, 10, 10, 10)
	second := dailyRows("KE002", 10, 10, 10)
	rows := append(first, second...)

	annotateAnomalies(rows, 14, 3, 1e-3)

	// KE002 starts its own window: three observations is below window/2,
	// even though KE001 contributed eight rows just before.
	for i := 8; i < 11; i++ {
		assert.Nil(t, rows[i].RainMean, "row %d", i)
		assert.Nil(t, rows[i].IsAnomaly, "row %d", i)
	}
}

func TestAggregateSums(t *testing.T) {
	rows := dailyRows("KE001", 1, 2, 3, 4, 5, 6, 7, 8)

	aggregateSums(rows, 3, 7)

	// Minimum count 1: defined from the first row.
	assert.Equal(t, 1.0, rows[0].Rain3d)
	assert.Equal(t, 3.0, rows[1].Rain3d)
	assert.Equal(t, 6.0, rows[2].Rain3d)
	assert.Equal(t, 9.0, rows[3].Rain3d)

	assert.Equal(t, 1.0, rows[0].Rain7d)
	assert.Equal(t, 28.0, rows[6].Rain7d)
	assert.Equal(t, 35.0, rows[7].Rain7d) // 2+3+4+5+6+7+8
}

func TestAggregateSumsResetsPerKey(t *testing.T) {
	first := dailyRows("KE001", 10, 20, 30)
	second := dailyRows("KE002", 7, 8)
	rows := append(first, second...)

	aggregateSums(rows, 3, 7)

	assert.Equal(t, 60.0, rows[2].Rain3d)
	// KE002's first row sums to its own rainfall only.
	assert.Equal(t, 7.0, rows[3].Rain3d)
	assert.Equal(t, 15.0, rows[4].Rain3d)
	assert.Equal(t, 7.0, rows[3].Rain7d)
}
