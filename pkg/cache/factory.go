package cache

import (
	"flota-backend/pkg/redis"
)

// NewManager creates a cache manager backed by the given Redis client.
func NewManager(redisClient *redis.Client, config Config) Manager {
	return NewRedisManager(redisClient, config)
}

// NewDefaultManager creates a cache manager with the default configuration.
func NewDefaultManager(redisClient *redis.Client) Manager {
	return NewRedisManager(redisClient, DefaultConfig())
}
