package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"flota-backend/pkg/redis"
)

// slidingWindowScript counts requests inside a fixed window stored in a hash.
// Running the check and the increment in one script keeps them atomic across
// concurrent API instances.
const slidingWindowScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local data = redis.call('HMGET', key, 'count', 'window_start')
local count = tonumber(data[1]) or 0
local window_start = tonumber(data[2]) or now

if now - window_start >= window then
    count = 0
    window_start = now
end

if count >= limit then
    local retry_after = window - (now - window_start)
    return {0, retry_after}
end

redis.call('HMSET', key, 'count', count + 1, 'window_start', window_start)
redis.call('EXPIRE', key, window)
return {1, 0}
`

// RedisLimiter enforces limits via Redis so every API instance shares the
// same counters. When Redis is unreachable it defers to the fallback limiter
// if one is configured, otherwise it fails open.
type RedisLimiter struct {
	client   *redis.Client
	config   *Config
	fallback Limiter

	totalRequests   int64
	blockedRequests int64
}

func NewRedisLimiter(client *redis.Client, config *Config, fallback Limiter) *RedisLimiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &RedisLimiter{
		client:   client,
		config:   config,
		fallback: fallback,
	}
}

func (r *RedisLimiter) Allow(clientID, category string) (bool, time.Duration, error) {
	if !r.config.Enabled {
		return true, 0, nil
	}
	atomic.AddInt64(&r.totalRequests, 1)

	if !r.client.IsConnected() {
		return r.allowFallback(clientID, category)
	}

	limit := r.config.limit(category)
	key := fmt.Sprintf("%s%s:%s", r.config.KeyPrefix, category, clientID)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := r.client.GetClient().Eval(ctx, slidingWindowScript,
		[]string{key},
		limit.Requests,
		int(limit.Window.Seconds()),
		time.Now().Unix(),
	).Result()
	if err != nil {
		return r.allowFallback(clientID, category)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return true, 0, fmt.Errorf("unexpected rate limit script result: %v", result)
	}

	allowed, _ := values[0].(int64)
	retryAfter, _ := values[1].(int64)

	if allowed == 1 {
		return true, 0, nil
	}
	atomic.AddInt64(&r.blockedRequests, 1)
	return false, time.Duration(retryAfter) * time.Second, nil
}

func (r *RedisLimiter) allowFallback(clientID, category string) (bool, time.Duration, error) {
	if r.fallback != nil {
		return r.fallback.Allow(clientID, category)
	}
	return true, 0, nil
}

func (r *RedisLimiter) Limit(category string) Limit {
	return r.config.limit(category)
}

func (r *RedisLimiter) Stats() Stats {
	return Stats{
		TotalRequests:   atomic.LoadInt64(&r.totalRequests),
		BlockedRequests: atomic.LoadInt64(&r.blockedRequests),
	}
}
