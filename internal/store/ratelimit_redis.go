package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/tour-admission/internal/ratelimit"
)

// fixedWindowScript increments or resets a fixed window in one atomic step.
// The server clock is used as now so that every instance agrees on boundaries.
// KEYS[1] = window key, ARGV[1] = window length in milliseconds.
// Returns {count, window_start_ms}.
const fixedWindowScript = `
local key = KEYS[1]
local window = tonumber(ARGV[1])
local t = redis.call('TIME')
local now = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)

local start = tonumber(redis.call('HGET', key, 'start'))
local count

if start == nil or start + window <= now then
	start = now
	count = 1
	redis.call('HSET', key, 'start', start, 'count', count)
else
	count = redis.call('HINCRBY', key, 'count', 1)
end

local ttl = start + window - now
if ttl < 1 then
	ttl = 1
end
redis.call('PEXPIRE', key, ttl)

return {count, start}
`

// RateLimitRedisStore is a Redis implementation of ratelimit.Store.
// Expired windows are removed by key TTL.
type RateLimitRedisStore struct {
	client redis.Scripter
	script *redis.Script
}

// NewRateLimitRedisStore creates a new Redis-backed rate limit store.
func NewRateLimitRedisStore(client redis.Scripter) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		script: redis.NewScript(fixedWindowScript),
	}
}

func (r *RateLimitRedisStore) Hit(ctx context.Context, key string, window time.Duration) (ratelimit.Window, error) {
	windowMs := max(window.Milliseconds(), 1)

	vals, err := r.script.Run(ctx, r.client, []string{key}, windowMs).Int64Slice()
	if err != nil {
		return ratelimit.Window{}, err
	}

	if len(vals) != 2 {
		return ratelimit.Window{}, fmt.Errorf("unexpected fixed window reply: %v", vals)
	}

	return ratelimit.Window{
		Key:    key,
		Count:  vals[0],
		Start:  time.UnixMilli(vals[1]),
		Length: window,
	}, nil
}

// Compile-time check.
var _ ratelimit.Store = (*RateLimitRedisStore)(nil)
