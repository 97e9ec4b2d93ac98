package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSlotCacheForTest(t *testing.T) (*SlotCacheService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSlotCacheService(client, logrus.New(), time.Minute), mr
}

var cacheDay = time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

func TestSlotCacheRoundTrip(t *testing.T) {
	cache, _ := newSlotCacheForTest(t)
	ctx := context.Background()

	_, ok := cache.Get(ctx, cacheDay)
	assert.False(t, ok, "empty cache must miss")

	cache.Set(ctx, cacheDay, []string{"07:00", "07:30"})

	slots, ok := cache.Get(ctx, cacheDay)
	require.True(t, ok)
	assert.Equal(t, []string{"07:00", "07:30"}, slots)
}

func TestSlotCacheEmptyDayIsAHit(t *testing.T) {
	cache, _ := newSlotCacheForTest(t)
	ctx := context.Background()

	cache.Set(ctx, cacheDay, nil)

	slots, ok := cache.Get(ctx, cacheDay)
	require.True(t, ok, "a fully booked day is cached, not a miss")
	assert.Empty(t, slots)
}

func TestSlotCacheInvalidate(t *testing.T) {
	cache, _ := newSlotCacheForTest(t)
	ctx := context.Background()

	cache.Set(ctx, cacheDay, []string{"07:00"})
	cache.Invalidate(ctx, cacheDay)

	_, ok := cache.Get(ctx, cacheDay)
	assert.False(t, ok)
}

func TestSlotCacheKeysArePerDay(t *testing.T) {
	cache, _ := newSlotCacheForTest(t)
	ctx := context.Background()

	otherDay := cacheDay.AddDate(0, 0, 1)
	cache.Set(ctx, cacheDay, []string{"07:00"})
	cache.Set(ctx, otherDay, []string{"08:00"})

	cache.Invalidate(ctx, cacheDay)

	slots, ok := cache.Get(ctx, otherDay)
	require.True(t, ok, "invalidation must not touch other days")
	assert.Equal(t, []string{"08:00"}, slots)
}

func TestSlotCacheTTLExpiry(t *testing.T) {
	cache, mr := newSlotCacheForTest(t)
	ctx := context.Background()

	cache.Set(ctx, cacheDay, []string{"07:00"})
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, cacheDay)
	assert.False(t, ok, "entry must expire after the TTL")
}

func TestSlotCacheCorruptEntryDropped(t *testing.T) {
	cache, mr := newSlotCacheForTest(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("availability:slots:2026-03-06", "not json"))

	_, ok := cache.Get(ctx, cacheDay)
	assert.False(t, ok)
	assert.False(t, mr.Exists("availability:slots:2026-03-06"), "corrupt entry is deleted")
}

func TestSlotCacheRedisDown(t *testing.T) {
	cache, mr := newSlotCacheForTest(t)
	ctx := context.Background()
	mr.Close()

	_, ok := cache.Get(ctx, cacheDay)
	assert.False(t, ok, "a Redis failure degrades to a miss")

	// writes must not panic either
	cache.Set(ctx, cacheDay, []string{"07:00"})
	cache.Invalidate(ctx, cacheDay)
}
