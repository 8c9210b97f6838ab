package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/woofadaar/server/internal/model"
)

// CouponCache keeps coupon records keyed by code so the validate read path
// skips the database. Admin writes invalidate; the apply transaction never
// reads through the cache.
type CouponCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCouponCache(client *redis.Client, ttl time.Duration) *CouponCache {
	return &CouponCache{
		client: client,
		ttl:    ttl,
	}
}

func couponKey(code string) string {
	return "coupon:code:" + code
}

// Get returns the cached coupon, or nil on a miss.
func (c *CouponCache) Get(ctx context.Context, code string) (*model.Coupon, error) {
	data, err := c.client.Get(ctx, couponKey(code)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read coupon cache: %w", err)
	}

	var coupon model.Coupon
	if err := json.Unmarshal(data, &coupon); err != nil {
		return nil, fmt.Errorf("failed to decode cached coupon: %w", err)
	}
	return &coupon, nil
}

func (c *CouponCache) Set(ctx context.Context, coupon *model.Coupon) error {
	data, err := json.Marshal(coupon)
	if err != nil {
		return fmt.Errorf("failed to encode coupon: %w", err)
	}
	return c.client.Set(ctx, couponKey(coupon.Code), data, c.ttl).Err()
}

func (c *CouponCache) Invalidate(ctx context.Context, code string) error {
	return c.client.Del(ctx, couponKey(code)).Err()
}
