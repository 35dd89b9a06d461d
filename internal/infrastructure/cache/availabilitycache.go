package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// availabilityTTL keeps cached remaining counts short-lived; the ledger in
// the database stays authoritative.
const availabilityTTL = 10 * time.Second

// AvailabilityCache stores remaining-unit counts per ticket class in redis.
type AvailabilityCache struct {
	client *redis.Client
}

func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

func availabilityKey(classID uint) string {
	return fmt.Sprintf("tessera:availability:%d", classID)
}

func (c *AvailabilityCache) Get(ctx context.Context, classID uint) (int, bool, error) {
	val, err := c.client.Get(ctx, availabilityKey(classID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read availability cache: %w", err)
	}

	remaining, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt availability cache entry: %w", err)
	}
	return remaining, true, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, classID uint, remaining int) error {
	if err := c.client.Set(ctx, availabilityKey(classID), remaining, availabilityTTL).Err(); err != nil {
		return fmt.Errorf("failed to write availability cache: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, classID uint) error {
	if err := c.client.Del(ctx, availabilityKey(classID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate availability cache: %w", err)
	}
	return nil
}
