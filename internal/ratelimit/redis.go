package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// slidingWindow prunes, counts and conditionally records in one round trip so
// concurrent requests for the same key cannot both take the last slot.
//
// KEYS[1] window key; ARGV: now (µs), window (µs), limit, member.
var slidingWindow = redislib.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local size = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - size)
if redis.call('ZCARD', key) >= limit then
  return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, math.ceil(size / 1000))
return 1
`)

// RedisLimiter shares windows between server replicas through a sorted set per key.
type RedisLimiter struct {
	client *redislib.Client
	prefix string
	limit  int
	size   time.Duration
}

func NewRedisLimiter(client *redislib.Client, limit int, size time.Duration) *RedisLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if size <= 0 {
		size = DefaultWindow
	}
	return &RedisLimiter{
		client: client,
		prefix: "ratelimit:",
		limit:  limit,
		size:   size,
	}
}

func (l *RedisLimiter) Window() time.Duration {
	return l.size
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, now time.Time) (bool, error) {
	admitted, err := slidingWindow.Run(ctx, l.client, []string{l.key(key)},
		now.UnixMicro(),
		l.size.Microseconds(),
		l.limit,
		strconv.FormatInt(now.UnixMicro(), 10)+"-"+uuid.NewString(),
	).Int()
	if err != nil {
		return false, err
	}
	return admitted == 1, nil
}

func (l *RedisLimiter) key(k string) string {
	return fmt.Sprintf("%s%s", l.prefix, k)
}
