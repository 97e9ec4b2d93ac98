package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const slotCacheKeyPrefix = "availability:slots:"

// SlotCacheService keeps the computed free slots of a calendar day in Redis
// for a short TTL. Every appointment write for a day must invalidate that
// day's entry, so cached results never outlive a booking.
type SlotCacheService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewSlotCacheService(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *SlotCacheService {
	return &SlotCacheService{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

// Get returns the cached free slots for a day. A miss or a Redis failure
// returns ok=false; the caller recomputes from the database.
func (s *SlotCacheService) Get(ctx context.Context, day time.Time) ([]string, bool) {
	raw, err := s.redisClient.Get(ctx, slotCacheKey(day)).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Warnf("Slot cache read failed for %s (non-fatal): %+v", slotCacheKey(day), err)
		}
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		s.log.Warnf("Slot cache entry corrupt for %s, dropping: %+v", slotCacheKey(day), err)
		_ = s.redisClient.Del(ctx, slotCacheKey(day)).Err()
		return nil, false
	}
	return slots, true
}

// Set stores the free slots of a day. An empty slice is a valid entry, it
// means the day is fully booked.
func (s *SlotCacheService) Set(ctx context.Context, day time.Time, slots []string) {
	if slots == nil {
		slots = []string{}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		s.log.Warnf("Slot cache marshal failed (non-fatal): %+v", err)
		return
	}
	if err := s.redisClient.Set(ctx, slotCacheKey(day), raw, s.ttl).Err(); err != nil {
		s.log.Warnf("Slot cache write failed for %s (non-fatal): %+v", slotCacheKey(day), err)
	}
}

// Invalidate removes the cached entry for a day after a booking write.
func (s *SlotCacheService) Invalidate(ctx context.Context, day time.Time) {
	if err := s.redisClient.Del(ctx, slotCacheKey(day)).Err(); err != nil {
		s.log.Warnf("Slot cache invalidation failed for %s (non-fatal): %+v", slotCacheKey(day), err)
	}
}

func slotCacheKey(day time.Time) string {
	return fmt.Sprintf("%s%s", slotCacheKeyPrefix, day.Format("2006-01-02"))
}
