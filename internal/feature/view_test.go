package feature_test

import (
	"math"
	"testing"

	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
	"github.com/couchcryptid/rainfall-risk-service/internal/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func featureRows(pcode string, days int) []domain.FeatureRow {
	rows := make([]domain.FeatureRow, days)
	for i := range rows {
		rows[i] = domain.FeatureRow{Observation: domain.Observation{
			PCode:    pcode,
			Date:     testBase.AddDate(0, 0, i),
			Rainfall: float64(i),
		}}
	}
	return rows
}

func TestRecentReturnsLastN(t *testing.T) {
	rows := featureRows("KE001", 10)

	got := feature.Recent(rows, "KE001", 3)

	require.Len(t, got, 3)
	assert.Equal(t, testBase.AddDate(0, 0, 7), got[0].Date)
	assert.Equal(t, testBase.AddDate(0, 0, 9), got[2].Date)
}

func TestRecentSortsByDateAscending(t *testing.T) {
	rows := featureRows("KE001", 6)
	// Shuffle: the view must not rely on pipeline ordering.
	rows[0], rows[4] = rows[4], rows[0]
	rows[1], rows[5] = rows[5], rows[1]

	got := feature.Recent(rows, "KE001", 6)

	require.Len(t, got, 6)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Date.Before(got[i-1].Date), "row %d out of order", i)
	}
}

func TestRecentFewerRowsThanRequested(t *testing.T) {
	rows := featureRows("KE001", 5)

	got := feature.Recent(rows, "KE001", 10)

	assert.Len(t, got, 5)
}

func TestRecentUnknownPCode(t *testing.T) {
	rows := featureRows("KE001", 5)

	assert.Empty(t, feature.Recent(rows, "KE999", 10))
}

func TestRecentFiltersOtherPCodes(t *testing.T) {
	rows := append(featureRows("KE001", 4), featureRows("KE002", 4)...)

	got := feature.Recent(rows, "KE002", 10)

	require.Len(t, got, 4)
	for _, row := range got {
		assert.Equal(t, "KE002", row.PCode)
	}
}

func TestRecentDropsIncompleteRows(t *testing.T) {
	rows := featureRows("KE001", 5)
	rows[2].Rainfall = math.NaN()
	rows[3].Rain7d = math.NaN()

	got := feature.Recent(rows, "KE001", 10)

	assert.Len(t, got, 3)
}

func TestRecentNonPositiveCount(t *testing.T) {
	rows := featureRows("KE001", 5)

	assert.Empty(t, feature.Recent(rows, "KE001", 0))
	assert.Empty(t, feature.Recent(rows, "KE001", -1))
}

func TestRecentEmptyDataset(t *testing.T) {
	assert.Empty(t, feature.Recent(nil, "KE001", 10))
}
