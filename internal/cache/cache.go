// Package cache holds a Redis-backed cache of per-event booked seat counts.
// It only serves the availability read path; reservations always count
// bookings inside their own transaction.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/config"
)

// NewClient creates a Redis client from cfg. It does not dial.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping checks Redis connectivity.
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// OccupancyCache stores the booked count of each event with a TTL.
type OccupancyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOccupancyCache constructs an OccupancyCache.
func NewOccupancyCache(client *redis.Client, ttl time.Duration) *OccupancyCache {
	return &OccupancyCache{client: client, ttl: ttl}
}

// Get returns the cached booked count. found is false on a cache miss.
func (c *OccupancyCache) Get(ctx context.Context, eventID int64) (booked int, found bool, err error) {
	n, err := c.client.Get(ctx, key(eventID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get occupancy: %w", err)
	}
	return n, true, nil
}

// Set stores the booked count for eventID.
func (c *OccupancyCache) Set(ctx context.Context, eventID int64, booked int) error {
	if err := c.client.Set(ctx, key(eventID), booked, c.ttl).Err(); err != nil {
		return fmt.Errorf("set occupancy: %w", err)
	}
	return nil
}

// Invalidate drops the cached count for eventID.
func (c *OccupancyCache) Invalidate(ctx context.Context, eventID int64) error {
	if err := c.client.Del(ctx, key(eventID)).Err(); err != nil {
		return fmt.Errorf("invalidate occupancy: %w", err)
	}
	return nil
}

func key(eventID int64) string {
	return fmt.Sprintf("booking:occupancy:%d", eventID)
}
