// Package ratelimit provides Redis-backed request limiting.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SlidingWindowLimiter implements sliding window rate limiting using
// Redis. Counters are shared across instances; when Redis is
// unavailable the limiter fails open.
type SlidingWindowLimiter struct {
	redis  *redis.Client
	rate   int
	window time.Duration
	burst  int
}

// NewSlidingWindowLimiter creates a limiter allowing rate requests per
// window, plus burst extra capacity.
func NewSlidingWindowLimiter(redisClient *redis.Client, rate int, window time.Duration, burst int) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		redis:  redisClient,
		rate:   rate,
		window: window,
		burst:  burst,
	}
}

var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local max_requests = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)

	if count < max_requests then
		redis.call('ZADD', key, now, now .. '-' .. math.random())
		redis.call('PEXPIRE', key, window_ms * 2)
		return 1
	else
		local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
		if #oldest > 0 then
			return -(oldest[2] + window_ms - now)
		end
		return 0
	end
`)

// Allow checks whether the request identified by key is allowed and
// returns the wait duration when it is not.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if l.redis == nil {
		return true, 0
	}

	now := time.Now()
	windowStart := now.Add(-l.window)
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	result, err := slidingWindowScript.Run(ctx, l.redis, []string{redisKey},
		now.UnixMilli(),
		windowStart.UnixMilli(),
		l.rate+l.burst,
		l.window.Milliseconds(),
	).Int64()
	if err != nil {
		// Fail open on Redis errors
		return true, 0
	}

	if result == 1 {
		return true, 0
	}
	if result < 0 {
		return false, time.Duration(-result) * time.Millisecond
	}
	return false, l.window
}

// Limit returns the configured maximum requests per window.
func (l *SlidingWindowLimiter) Limit() int {
	return l.rate + l.burst
}
