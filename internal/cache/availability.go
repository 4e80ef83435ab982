package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// AvailabilityCache keeps a short-lived remaining-seat count per trip so
// listing pages do not hit the booking table on every request. It is a
// pure read-through cache: booking admission never consults it, and a
// stale value self-heals on TTL expiry or explicit invalidation.
type AvailabilityCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func remainingKey(tripID int64) string {
	return "trip:remaining:" + strconv.FormatInt(tripID, 10)
}

// GetRemaining returns the cached count and whether it was present. Any
// redis error is reported as a miss so callers fall through to the
// database.
func (c AvailabilityCache) GetRemaining(ctx context.Context, tripID int64) (int, bool) {
	if c.Client == nil {
		return 0, false
	}
	val, err := c.Client.Get(ctx, remainingKey(tripID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c AvailabilityCache) SetRemaining(ctx context.Context, tripID int64, remaining int) error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Set(ctx, remainingKey(tripID), strconv.Itoa(remaining), c.TTL).Err()
}

// Invalidate drops the cached count after any write that changes seat
// occupancy.
func (c AvailabilityCache) Invalidate(ctx context.Context, tripID int64) error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Del(ctx, remainingKey(tripID)).Err()
}
