package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Actions with their own buckets.
const (
	ActionUploads = "uploads"
	ActionSearch  = "search"
)

// takeScript refills the bucket for the elapsed time and takes one token if available.
// It returns {allowed, remaining}.
var takeScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window_ms = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])
	local take = tonumber(ARGV[5])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local refilled = math.floor(((now - last_refill) / window_ms) * refill_rate)
	if refilled > 0 then
		tokens = math.min(capacity, tokens + refilled)
		last_refill = now
	end

	local allowed = 0
	if take > 0 and tokens > 0 then
		tokens = tokens - 1
		allowed = 1
	end

	if take > 0 then
		redis.call('HSET', key, 'tokens', tokens, 'last_refill', last_refill)
		redis.call('PEXPIRE', key, window_ms * 2)
	end

	return {allowed, tokens}
`)

// Decision is the outcome of one limiter check.
type Decision struct {
	Allowed   bool
	Remaining int64
	Limit     int64
}

// TokenBucket is a per-user token bucket kept in Redis.
type TokenBucket struct {
	redis    *redis.Client
	capacity int64
	refill   int64
	window   time.Duration
	now      func() time.Time
}

// NewTokenBucket allows capacity requests in a burst, refilled at refillRate per minute.
func NewTokenBucket(redisClient *redis.Client, capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		redis:    redisClient,
		capacity: capacity,
		refill:   refillRate,
		window:   time.Minute,
		now:      time.Now,
	}
}

// Take consumes one token for userID's action if one is available.
func (tb *TokenBucket) Take(ctx context.Context, userID, action string) (Decision, error) {
	return tb.run(ctx, userID, action, 1)
}

// Peek reports the remaining tokens without consuming one.
func (tb *TokenBucket) Peek(ctx context.Context, userID, action string) (Decision, error) {
	return tb.run(ctx, userID, action, 0)
}

func (tb *TokenBucket) Reset(ctx context.Context, userID, action string) error {
	return tb.redis.Del(ctx, bucketKey(userID, action)).Err()
}

func (tb *TokenBucket) run(ctx context.Context, userID, action string, take int) (Decision, error) {
	res, err := takeScript.Run(ctx, tb.redis, []string{bucketKey(userID, action)},
		tb.capacity, tb.refill, tb.window.Milliseconds(), tb.now().UnixMilli(), take).Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("rate limit script returned %d values", len(res))
	}

	allowed, ok1 := res[0].(int64)
	remaining, ok2 := res[1].(int64)
	if !ok1 || !ok2 {
		return Decision{}, fmt.Errorf("unexpected result types from rate limit script")
	}

	return Decision{
		Allowed:   allowed == 1,
		Remaining: remaining,
		Limit:     tb.capacity,
	}, nil
}

func bucketKey(userID, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", userID, action)
}
