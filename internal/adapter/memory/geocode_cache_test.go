package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adega-delivery/backend/internal/domain"
)

func TestGeocodeCacheRoundTrip(t *testing.T) {
	cache := NewGeocodeCache(time.Hour)
	ctx := context.Background()

	_, hit, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)

	coords := domain.Coordinates{Lat: -23.55, Lng: -46.63}
	require.NoError(t, cache.Put(ctx, "key", coords))

	got, hit, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, coords, *got)
}

func TestGeocodeCacheExpiresAfterTTL(t *testing.T) {
	cache := NewGeocodeCache(24 * time.Hour)
	ctx := context.Background()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Put(ctx, "key", domain.Coordinates{Lat: 1, Lng: 2}))

	now = now.Add(24*time.Hour - time.Second)
	_, hit, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, hit)

	now = now.Add(time.Second)
	_, hit, err = cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)

	// A rewrite starts a fresh TTL window.
	require.NoError(t, cache.Put(ctx, "key", domain.Coordinates{Lat: 3, Lng: 4}))
	got, hit, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, 3.0, got.Lat)
}
