// Package ratelimit is a redis fixed-window counter used to cap per-user
// command rates.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// Allow increments the counter for (action, userID) and reports whether the
// caller is still within limit for the window. Redis being down fails open:
// a missed rate limit is cheaper than a dead command surface.
func (l *Limiter) Allow(ctx context.Context, action, userID string, limit int, window time.Duration) bool {
	key := fmt.Sprintf("ratelimit:%s:%s", action, userID)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		logrus.Warnf("rate limiter unavailable for %s: %v", key, err)
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			logrus.Warnf("rate limiter expire failed for %s: %v", key, err)
		}
	}
	return count <= int64(limit)
}
