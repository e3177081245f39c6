package redisstore

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to addr and returns nil when Redis is not configured or not reachable,
// in which case the features built on it are disabled.
func NewClient(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		log.Println("REDIS_HOST not set, rate limiting and token revocation disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("WARNING: failed to connect to Redis at %s: %v. Rate limiting and token revocation disabled.", addr, err)
		client.Close()
		return nil
	}
	log.Printf("Redis connected at %s", addr)
	return client
}
