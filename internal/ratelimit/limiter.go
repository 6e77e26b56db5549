package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter bounds how often a keyed action may happen within a window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// incrScript bumps the fixed-window counter and guarantees it carries a
// TTL in the same Redis call. The PTTL check also re-arms counters that
// lost their expiry, so a stale key can never lock a caller out forever.
var incrScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
    redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// redisLimiter implements a fixed-window counter per key.
type redisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter builds a Redis-backed limiter.
func NewRedisLimiter(client *redis.Client, prefix string) Limiter {
	return &redisLimiter{client: client, prefix: prefix}
}

func (l *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	counterKey := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := incrScript.Run(ctx, l.client, []string{counterKey}, window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return count <= int64(limit), nil
}
