package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window request counter keyed by an arbitrary string.
type Limiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	period time.Duration
}

func NewLimiter(rdb *redis.Client, prefix string, limit int, period time.Duration) *Limiter {
	return &Limiter{rdb: rdb, prefix: prefix, limit: int64(limit), period: period}
}

// Allow counts one hit for key and reports whether it is within the limit. A nil
// limiter or client allows everything.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return true, nil
	}
	k := l.prefix + key

	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.period).Err(); err != nil {
			return true, err
		}
	}
	return count <= l.limit, nil
}
