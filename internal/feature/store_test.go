package feature_test

import (
	"context"
	"testing"

	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
	"github.com/couchcryptid/rainfall-risk-service/internal/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReadiness(t *testing.T) {
	store := feature.NewStore()

	require.Error(t, store.CheckReadiness(context.Background()))

	store.Replace(domain.FeatureSet{Rows: featureRows("KE001", 3)})

	assert.NoError(t, store.CheckReadiness(context.Background()))
}

func TestStoreSnapshot(t *testing.T) {
	store := feature.NewStore()

	_, ok := store.Snapshot()
	assert.False(t, ok)

	store.Replace(domain.FeatureSet{Rows: featureRows("KE001", 3)})

	set, ok := store.Snapshot()
	require.True(t, ok)
	assert.Len(t, set.Rows, 3)
}

func TestStoreViews(t *testing.T) {
	store := feature.NewStore()
	rows := append(featureRows("KE002", 4), featureRows("KE001", 2)...)
	store.Replace(domain.FeatureSet{Rows: rows})

	assert.Equal(t, []string{"KE001", "KE002"}, store.PCodes())

	recent := store.Recent("KE002", 2)
	require.Len(t, recent, 2)
	assert.Equal(t, "KE002", recent[0].PCode)

	assert.Empty(t, store.Recent("KE999", 5))
}
