package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"flota-backend/internal/models"
	"flota-backend/pkg/redis"

	redisClient "github.com/redis/go-redis/v9"
)

// RedisManager implements Manager on top of the shared Redis client.
type RedisManager struct {
	client *redis.Client
	config Config
	stats  *statsCounters
	ctx    context.Context
}

type statsCounters struct {
	mu            sync.RWMutex
	totalHits     int64
	totalMisses   int64
	evictionCount int64
}

// NewRedisManager creates a Redis-backed cache manager.
func NewRedisManager(redisClient *redis.Client, config Config) *RedisManager {
	return &RedisManager{
		client: redisClient,
		config: config,
		stats:  &statsCounters{},
		ctx:    context.Background(),
	}
}

// GetVehicle retrieves a cached vehicle by plate. A miss returns (nil, nil).
func (r *RedisManager) GetVehicle(plate string) (*models.Vehicle, error) {
	key := r.buildKey("vehicle", plate)

	data, err := r.client.GetClient().Get(r.ctx, key).Result()
	if err != nil {
		if err == redisClient.Nil {
			r.recordMiss()
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vehicle from cache: %w", err)
	}

	var vehicle models.Vehicle
	if err := json.Unmarshal([]byte(data), &vehicle); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vehicle data: %w", err)
	}

	r.recordHit()
	return &vehicle, nil
}

// SetVehicle stores a vehicle keyed by plate, tagged by status and cost
// center so a bulk invalidation can target either group.
func (r *RedisManager) SetVehicle(plate string, vehicle *models.Vehicle, ttl time.Duration) error {
	key := r.buildKey("vehicle", plate)

	data, err := json.Marshal(vehicle)
	if err != nil {
		return fmt.Errorf("failed to marshal vehicle data: %w", err)
	}

	if err := r.client.GetClient().Set(r.ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set vehicle in cache: %w", err)
	}

	tags := []string{
		fmt.Sprintf("vehicle:%s", plate),
		fmt.Sprintf("status:%s", vehicle.Status),
	}
	if vehicle.CostCenter != "" {
		tags = append(tags, fmt.Sprintf("cost_center:%s", vehicle.CostCenter))
	}

	if err := r.TagKey(key, tags...); err != nil {
		log.Printf("Warning: failed to tag cache key %s: %v", key, err)
	}

	return nil
}

// InvalidateVehicle removes a vehicle and every cached aggregate that
// includes it.
func (r *RedisManager) InvalidateVehicle(plate string) error {
	if err := r.InvalidateByTag(fmt.Sprintf("vehicle:%s", plate)); err != nil {
		return err
	}
	return r.Delete(r.buildKey("vehicle", plate))
}

// GetFleet retrieves a cached fleet listing. A miss returns (nil, nil).
func (r *RedisManager) GetFleet(key string) ([]models.Vehicle, error) {
	cacheKey := r.buildKey("fleet", key)

	data, err := r.client.GetClient().Get(r.ctx, cacheKey).Result()
	if err != nil {
		if err == redisClient.Nil {
			r.recordMiss()
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fleet from cache: %w", err)
	}

	var vehicles []models.Vehicle
	if err := json.Unmarshal([]byte(data), &vehicles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fleet data: %w", err)
	}

	r.recordHit()
	return vehicles, nil
}

// fleetListTag marks every cached fleet listing so all of them can be
// dropped in one invalidation regardless of which filter produced them.
const fleetListTag = "fleet_list"

// SetFleet stores a fleet listing tagged with every plate it contains plus
// the shared fleet list tag.
func (r *RedisManager) SetFleet(key string, vehicles []models.Vehicle, ttl time.Duration) error {
	cacheKey := r.buildKey("fleet", key)

	data, err := json.Marshal(vehicles)
	if err != nil {
		return fmt.Errorf("failed to marshal fleet data: %w", err)
	}

	if err := r.client.GetClient().Set(r.ctx, cacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set fleet in cache: %w", err)
	}

	tags := make([]string, 0, len(vehicles)+1)
	tags = append(tags, fleetListTag)
	for _, vehicle := range vehicles {
		tags = append(tags, fmt.Sprintf("vehicle:%s", vehicle.Plate))
	}

	if err := r.TagKey(cacheKey, tags...); err != nil {
		log.Printf("Warning: failed to tag cache key %s: %v", cacheKey, err)
	}

	return nil
}

// InvalidateFleetLists drops every cached fleet listing, whatever filter it
// was built from.
func (r *RedisManager) InvalidateFleetLists() error {
	return r.InvalidateByTag(fleetListTag)
}

// GetAlerts retrieves a cached alert snapshot. A miss returns (nil, nil).
func (r *RedisManager) GetAlerts(key string) ([]models.Alert, error) {
	cacheKey := r.buildKey("alerts", key)

	data, err := r.client.GetClient().Get(r.ctx, cacheKey).Result()
	if err != nil {
		if err == redisClient.Nil {
			r.recordMiss()
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alerts from cache: %w", err)
	}

	var alerts []models.Alert
	if err := json.Unmarshal([]byte(data), &alerts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert data: %w", err)
	}

	r.recordHit()
	return alerts, nil
}

// SetAlerts stores an alert snapshot tagged with the plates it covers.
func (r *RedisManager) SetAlerts(key string, alerts []models.Alert, ttl time.Duration) error {
	cacheKey := r.buildKey("alerts", key)

	data, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("failed to marshal alert data: %w", err)
	}

	if err := r.client.GetClient().Set(r.ctx, cacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set alerts in cache: %w", err)
	}

	seen := make(map[string]bool)
	var tags []string
	for _, alert := range alerts {
		if !seen[alert.Plate] {
			seen[alert.Plate] = true
			tags = append(tags, fmt.Sprintf("vehicle:%s", alert.Plate))
		}
	}

	if len(tags) > 0 {
		if err := r.TagKey(cacheKey, tags...); err != nil {
			log.Printf("Warning: failed to tag cache key %s: %v", cacheKey, err)
		}
	}

	return nil
}

// Get retrieves a generic value. The bool reports whether the key was found.
func (r *RedisManager) Get(key string, dest interface{}) (bool, error) {
	cacheKey := r.buildKey("generic", key)

	data, err := r.client.GetClient().Get(r.ctx, cacheKey).Result()
	if err != nil {
		if err == redisClient.Nil {
			r.recordMiss()
			return false, nil
		}
		return false, fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal data: %w", err)
	}

	r.recordHit()
	return true, nil
}

// Set stores a generic value.
func (r *RedisManager) Set(key string, value interface{}, ttl time.Duration) error {
	cacheKey := r.buildKey("generic", key)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	return r.client.GetClient().Set(r.ctx, cacheKey, data, ttl).Err()
}

// Delete removes a key and its tag associations.
func (r *RedisManager) Delete(key string) error {
	if err := r.removeKeyTags(key); err != nil {
		log.Printf("Warning: failed to remove tags for key %s: %v", key, err)
	}

	return r.client.GetClient().Del(r.ctx, key).Err()
}

// TagKey associates tags with a cache key for grouped invalidation.
func (r *RedisManager) TagKey(key string, tags ...string) error {
	pipe := r.client.GetClient().Pipeline()

	keyTagsKey := r.buildTagKey("key_tags", key)
	pipe.SAdd(r.ctx, keyTagsKey, tags)
	pipe.Expire(r.ctx, keyTagsKey, r.config.FleetListTTL*2)

	for _, tag := range tags {
		tagKeysKey := r.buildTagKey("tag_keys", tag)
		pipe.SAdd(r.ctx, tagKeysKey, key)
		pipe.Expire(r.ctx, tagKeysKey, r.config.FleetListTTL*2)
	}

	_, err := pipe.Exec(r.ctx)
	return err
}

// InvalidateByTag removes every key associated with a tag.
func (r *RedisManager) InvalidateByTag(tag string) error {
	tagKeysKey := r.buildTagKey("tag_keys", tag)

	keys, err := r.client.GetClient().SMembers(r.ctx, tagKeysKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get keys for tag %s: %w", tag, err)
	}

	if len(keys) == 0 {
		return nil
	}

	pipe := r.client.GetClient().Pipeline()

	for _, key := range keys {
		pipe.Del(r.ctx, key)
		keyTagsKey := r.buildTagKey("key_tags", key)
		pipe.Del(r.ctx, keyTagsKey)
	}

	pipe.Del(r.ctx, tagKeysKey)

	_, err = pipe.Exec(r.ctx)
	if err != nil {
		return fmt.Errorf("failed to invalidate keys for tag %s: %w", tag, err)
	}

	r.stats.mu.Lock()
	r.stats.evictionCount += int64(len(keys))
	r.stats.mu.Unlock()

	return nil
}

// Stats returns cache performance statistics.
func (r *RedisManager) Stats() Stats {
	r.stats.mu.RLock()
	totalHits := r.stats.totalHits
	totalMisses := r.stats.totalMisses
	evictionCount := r.stats.evictionCount
	r.stats.mu.RUnlock()

	total := totalHits + totalMisses
	var hitRate, missRate float64
	if total > 0 {
		hitRate = float64(totalHits) / float64(total)
		missRate = float64(totalMisses) / float64(total)
	}

	var memoryUsage int64
	if info, err := r.client.GetClient().Info(r.ctx, "memory").Result(); err == nil {
		for _, line := range strings.Split(info, "\n") {
			if strings.HasPrefix(line, "used_memory:") {
				if val, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(line, "used_memory:")), 10, 64); err == nil {
					memoryUsage = val
				}
			}
		}
	}

	keyCount := 0
	if keys, err := r.client.GetClient().Keys(r.ctx, r.config.KeyPrefix+"*").Result(); err == nil {
		keyCount = len(keys)
	}

	return Stats{
		HitRate:       hitRate,
		MissRate:      missRate,
		MemoryUsage:   memoryUsage,
		KeyCount:      keyCount,
		EvictionCount: int(evictionCount),
		TotalHits:     totalHits,
		TotalMisses:   totalMisses,
	}
}

// HealthCheck verifies cache connectivity.
func (r *RedisManager) HealthCheck() error {
	return r.client.GetClient().Ping(r.ctx).Err()
}

// Close closes the underlying Redis client.
func (r *RedisManager) Close() error {
	return r.client.Close()
}

func (r *RedisManager) buildKey(keyType, identifier string) string {
	return fmt.Sprintf("%s%s:%s", r.config.KeyPrefix, keyType, identifier)
}

func (r *RedisManager) buildTagKey(keyType, identifier string) string {
	return fmt.Sprintf("%s%s:%s", r.config.TagPrefix, keyType, identifier)
}

func (r *RedisManager) recordHit() {
	r.stats.mu.Lock()
	r.stats.totalHits++
	r.stats.mu.Unlock()
}

func (r *RedisManager) recordMiss() {
	r.stats.mu.Lock()
	r.stats.totalMisses++
	r.stats.mu.Unlock()
}

func (r *RedisManager) removeKeyTags(key string) error {
	keyTagsKey := r.buildTagKey("key_tags", key)

	tags, err := r.client.GetClient().SMembers(r.ctx, keyTagsKey).Result()
	if err != nil {
		return err
	}

	pipe := r.client.GetClient().Pipeline()

	for _, tag := range tags {
		tagKeysKey := r.buildTagKey("tag_keys", tag)
		pipe.SRem(r.ctx, tagKeysKey, key)
	}

	pipe.Del(r.ctx, keyTagsKey)

	_, err = pipe.Exec(r.ctx)
	return err
}
