package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// SubscriptionKey is the cache key for a user's reconciled subscription state.
func SubscriptionKey(userID string) string {
	return "subscription:" + userID
}
