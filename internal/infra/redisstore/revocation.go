package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "revoked_token:"

// TokenRevocations remembers logged-out token ids until the tokens would have expired anyway.
type TokenRevocations struct {
	rdb *redis.Client
}

func NewTokenRevocations(rdb *redis.Client) *TokenRevocations {
	return &TokenRevocations{rdb: rdb}
}

func (r *TokenRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if r == nil || r.rdb == nil || ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err()
}

func (r *TokenRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r == nil || r.rdb == nil {
		return false, nil
	}
	err := r.rdb.Get(ctx, revokedPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
