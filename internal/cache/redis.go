// Package cache holds the redis-backed request limiter used by the mock
// backend's credential endpoints.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

type Limiter struct {
	rdb         *redis.Client
	window      time.Duration
	maxRequests int
}

func NewLimiter(addr string, maxRequests int, window time.Duration) (*Limiter, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, err
	}

	return &Limiter{rdb: rdb, window: window, maxRequests: maxRequests}, nil
}

// Allow counts one request for key in the current window. The window starts
// with the first request and is not extended by later ones. Redis errors let
// the request through.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	k := fmt.Sprintf("ratelimit:%s", key)

	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		slog.Warn("Rate limiter unavailable", "key", key, "error", err)
		return true
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			slog.Warn("Rate limit window not set", "key", key, "error", err)
			l.rdb.Del(ctx, k)
		}
	}

	return count <= int64(l.maxRequests)
}

func (l *Limiter) Close() error {
	return l.rdb.Close()
}
