package ratelimit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/logger"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/redis"
)

const (
	attemptsPrefix = "ratelimit:attempts:"
	blockPrefix    = "ratelimit:block:"
)

// checkScript prunes the attempt set, honors an existing block, installs a
// new block when the limit is reached and reports the decision as
// {allowed, remaining, resetAtMs, total}. All timestamps are unix millis.
const checkScript = `
local attemptsKey = KEYS[1]
local blockKey = KEYS[2]
local now = tonumber(ARGV[1])
local windowMs = tonumber(ARGV[2])
local maxAttempts = tonumber(ARGV[3])
local blockMs = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', attemptsKey, 0, now - windowMs)
local count = redis.call('ZCARD', attemptsKey)

local block = redis.call('HMGET', blockKey, 'until', 'count')
local blockedUntil = tonumber(block[1])
if blockedUntil and blockedUntil > now then
	return {0, 0, blockedUntil, tonumber(block[2]) or count}
end

if maxAttempts <= 0 then
	return {0, 0, now + windowMs, count}
end

if count >= maxAttempts then
	local until_ = now + blockMs
	redis.call('HSET', blockKey, 'until', until_, 'count', count)
	redis.call('PEXPIRE', blockKey, blockMs)
	return {0, 0, until_, count}
end

return {1, maxAttempts - count, now + windowMs, count}
`

// recordScript appends one attempt and refreshes the idle TTL so abandoned
// keys expire on their own
const recordScript = `
local attemptsKey = KEYS[1]
local now = tonumber(ARGV[1])
local windowMs = tonumber(ARGV[2])
local member = ARGV[3]
local idleMs = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', attemptsKey, 0, now - windowMs)
redis.call('ZADD', attemptsKey, now, member)
redis.call('PEXPIRE', attemptsKey, idleMs)
return redis.call('ZCARD', attemptsKey)
`

// RedisLimiter is the shared Limiter implementation for multi-instance
// deployments. Decisions run as Lua scripts so the prune/count/block sequence
// is atomic across instances.
//
// The limiter fails open: when Redis is unreachable requests pass through
// instead of locking every caller out.
type RedisLimiter struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisLimiter creates a Redis-backed limiter
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		log:    logger.Get().Named("ratelimit"),
	}
}

// Check implements Limiter
func (l *RedisLimiter) Check(ctx context.Context, key string, maxAttempts int, window time.Duration) Result {
	now := time.Now()

	cmd := l.client.EvalWithFallback(ctx, "ratelimit_check", checkScript,
		[]string{attemptsPrefix + key, blockPrefix + key},
		now.UnixMilli(), window.Milliseconds(), maxAttempts, BlockDuration.Milliseconds(),
	)

	vals, err := cmd.Int64Slice()
	if err != nil || len(vals) != 4 {
		l.log.Warn("rate limit check failed, allowing request",
			zap.String("key", key),
			zap.Error(err),
		)
		return Result{
			Allowed:           true,
			RemainingAttempts: maxAttempts,
			ResetTime:         now.Add(window),
			TotalAttempts:     0,
		}
	}

	return Result{
		Allowed:           vals[0] == 1,
		RemainingAttempts: int(vals[1]),
		ResetTime:         time.UnixMilli(vals[2]),
		TotalAttempts:     int(vals[3]),
	}
}

// RecordAttempt implements Limiter
func (l *RedisLimiter) RecordAttempt(ctx context.Context, key string, window time.Duration) {
	now := time.Now()

	cmd := l.client.EvalWithFallback(ctx, "ratelimit_record", recordScript,
		[]string{attemptsPrefix + key},
		now.UnixMilli(), window.Milliseconds(), uuid.NewString(), IdleRetention.Milliseconds(),
	)

	if err := cmd.Err(); err != nil {
		l.log.Warn("failed to record rate limit attempt",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// Reset implements Limiter
func (l *RedisLimiter) Reset(ctx context.Context, key string) {
	if err := l.client.Client().Del(ctx, attemptsPrefix+key, blockPrefix+key).Err(); err != nil {
		l.log.Warn("failed to reset rate limit key",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// IsBlocked implements Limiter
func (l *RedisLimiter) IsBlocked(ctx context.Context, key string) bool {
	until, err := l.client.Client().HGet(ctx, blockPrefix+key, "until").Int64()
	if err != nil {
		return false
	}
	return time.UnixMilli(until).After(time.Now())
}

// Cleanup implements Limiter. Redis keys carry TTLs set at write time, so
// expiry is handled server side and this is a no-op.
func (l *RedisLimiter) Cleanup(context.Context) {}
