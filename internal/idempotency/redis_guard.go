package idempotency

import (
	"context"
	"fmt"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// RedisGuard shares marks between every process pointed at the same Redis.
type RedisGuard struct {
	rdb    *rd.Client
	prefix string
	ttl    time.Duration
}

func NewRedisGuard(rdb *rd.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{rdb: rdb, prefix: "supplierhub:idem:", ttl: ttl}
}

func (g *RedisGuard) key(subOrderID string) string {
	return g.prefix + Key(subOrderID)
}

func (g *RedisGuard) ShouldRun(ctx context.Context, subOrderID string) (bool, error) {
	n, err := g.rdb.Exists(ctx, g.key(subOrderID)).Result()
	if err != nil {
		return false, fmt.Errorf("checking idempotency key: %w", err)
	}
	return n == 0, nil
}

func (g *RedisGuard) MarkRun(ctx context.Context, subOrderID string) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, g.key(subOrderID), time.Now().UTC().Format(time.RFC3339Nano), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setting idempotency key: %w", err)
	}
	return ok, nil
}
