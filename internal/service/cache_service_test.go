package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_TTL(t *testing.T) {
	cs := NewCacheService()
	defer cs.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cs.now = func() time.Time { return now }

	cs.Set("listings:stats", 42, time.Minute)
	v, ok := cs.Get("listings:stats")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	now = now.Add(2 * time.Minute)
	_, ok = cs.Get("listings:stats")
	assert.False(t, ok)

	cs.evictExpired()
	cs.mu.RLock()
	assert.Empty(t, cs.cache)
	cs.mu.RUnlock()
}

func TestCacheService_GetOrSet(t *testing.T) {
	cs := NewCacheService()
	defer cs.Close()

	calls := 0
	compute := func(context.Context) (interface{}, error) {
		calls++
		return "valor", nil
	}

	for i := 0; i < 3; i++ {
		v, err := cs.GetOrSet(context.Background(), StatsCacheKey, time.Minute, compute)
		require.NoError(t, err)
		assert.Equal(t, "valor", v)
	}
	assert.Equal(t, 1, calls)

	cs.InvalidateListings()
	_, err := cs.GetOrSet(context.Background(), StatsCacheKey, time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	_, err = cs.GetOrSet(context.Background(), "otra", time.Minute, func(context.Context) (interface{}, error) {
		return nil, errors.New("fallo")
	})
	assert.Error(t, err)
	_, ok := cs.Get("otra")
	assert.False(t, ok)
}

func TestCacheService_InvalidateByPrefix(t *testing.T) {
	cs := NewCacheService()
	defer cs.Close()

	cs.Set("listings:stats", 1, time.Minute)
	cs.Set("listings:otro", 2, time.Minute)
	cs.Set("foundations:1", 3, time.Minute)

	cs.InvalidateByPrefix("listings:")

	_, ok := cs.Get("listings:stats")
	assert.False(t, ok)
	_, ok = cs.Get("foundations:1")
	assert.True(t, ok)

	var nilCache *CacheService
	nilCache.InvalidateListings()
}

func TestCacheService_GetOrSetSkipsValueComputedAcrossInvalidation(t *testing.T) {
	cs := NewCacheService()
	defer cs.Close()

	v, err := cs.GetOrSet(context.Background(), StatsCacheKey, time.Minute, func(context.Context) (interface{}, error) {
		// переход публикации во время подсчёта
		cs.InvalidateListings()
		return "antes", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "antes", v)

	_, ok := cs.Get(StatsCacheKey)
	assert.False(t, ok)

	v, err = cs.GetOrSet(context.Background(), StatsCacheKey, time.Minute, func(context.Context) (interface{}, error) {
		return "despues", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "despues", v)

	cached, ok := cs.Get(StatsCacheKey)
	require.True(t, ok)
	assert.Equal(t, "despues", cached)
}
