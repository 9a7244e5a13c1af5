package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindow trims the sorted set to the window, then admits the request when room is left.
// Returns {allowed, remaining, oldest_ms}.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call("zremrangebyscore", key, "-inf", window_start)
	local current = redis.call("zcard", key)

	if current < limit then
		redis.call("zadd", key, now, member)
		redis.call("pexpire", key, window_ms)
		return {1, limit - current - 1, 0}
	end
	local oldest = redis.call("zrange", key, 0, 0, "WITHSCORES")
	if #oldest > 0 then
		return {0, 0, tonumber(oldest[2])}
	end
	return {0, 0, 0}
`)

// Redis is a sliding-window limiter shared by every replica through one Redis instance.
type Redis struct {
	client *redis.Client
	prefix string
	rule   Rule
}

// NewRedis wraps an existing client. Keys are namespaced with prefix.
func NewRedis(client *redis.Client, prefix string, rule Rule) *Redis {
	return &Redis{client: client, prefix: prefix, rule: rule}
}

func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	if !r.rule.Enabled() {
		return Result{Allowed: true}, nil
	}
	now := time.Now()
	res, err := slidingWindow.Run(ctx, r.client, []string{r.prefix + key},
		now.UnixMilli(),
		now.Add(-r.rule.Window).UnixMilli(),
		r.rule.Limit,
		r.rule.Window.Milliseconds(),
		strconv.FormatInt(now.UnixMilli(), 10)+"-"+uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(res) != 3 {
		return Result{}, fmt.Errorf("%w: unexpected script reply %v", ErrUnavailable, res)
	}

	out := Result{Allowed: res[0] == 1, Remaining: res[1]}
	if !out.Allowed && res[2] > 0 {
		out.RetryIn = time.UnixMilli(res[2]).Add(r.rule.Window).Sub(now)
	}
	return out, nil
}
