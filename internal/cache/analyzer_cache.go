// Package cache provides the two-tier (in-memory LRU + Redis) cache for
// symptom-analysis results. The memory tier absorbs hot repeats within a
// single instance; Redis shares results across instances and survives
// restarts. Either tier may be absent without affecting correctness.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vitals-triage-server/internal/domain"
)

const defaultMemoryEntries = 1024

// cachedAnalysis wraps a result with explicit expiry metadata so both
// tiers evict consistently even when Redis TTLs drift.
type cachedAnalysis struct {
	Analysis  *domain.SymptomAnalysis `json:"analysis"`
	CachedAt  time.Time               `json:"cached_at"`
	ExpiresAt time.Time               `json:"expires_at"`
}

func (c cachedAnalysis) expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// AnalyzerCache is the two-tier cache keyed by a hash of the symptom
// narrative. Safe for concurrent use.
type AnalyzerCache struct {
	memory *lru.Cache[string, cachedAnalysis]
	redis  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewAnalyzerCache creates the cache. A nil Redis client leaves only the
// memory tier, which is the lite-deployment configuration.
func NewAnalyzerCache(logger *logrus.Logger, redisClient *redis.Client, cfg domain.CacheConfig) (*AnalyzerCache, error) {
	entries := cfg.MemoryEntries
	if entries <= 0 {
		entries = defaultMemoryEntries
	}

	memory, err := lru.New[string, cachedAnalysis](entries)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}

	return &AnalyzerCache{
		memory: memory,
		redis:  redisClient,
		ttl:    cfg.DefaultTTL,
		logger: logger,
	}, nil
}

// NewRedisClient builds and pings the Redis client from configuration.
func NewRedisClient(ctx context.Context, cfg domain.CacheConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.PoolTimeout = cfg.PoolTimeout
	opts.MaxRetries = cfg.MaxRetries

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// Get checks the memory tier, then Redis. A Redis hit backfills the
// memory tier. Redis failures degrade to a miss rather than erroring the
// assessment path.
func (c *AnalyzerCache) Get(ctx context.Context, symptomText string) (*domain.SymptomAnalysis, bool, error) {
	key := c.cacheKey(symptomText)
	now := time.Now()

	if cached, ok := c.memory.Get(key); ok {
		if cached.expired(now) {
			c.memory.Remove(key)
		} else {
			return cached.Analysis, true, nil
		}
	}

	if c.redis == nil {
		return nil, false, nil
	}

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		c.logger.WithError(err).Debug("Redis cache read failed, treating as miss")
		return nil, false, nil
	}

	var cached cachedAnalysis
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		// Corrupted entry; drop it.
		c.redis.Del(ctx, key)
		return nil, false, nil
	}
	if cached.expired(now) {
		c.redis.Del(ctx, key)
		return nil, false, nil
	}

	c.memory.Add(key, cached)
	return cached.Analysis, true, nil
}

// Set writes both tiers. A Redis write failure is reported but the memory
// tier still holds the entry.
func (c *AnalyzerCache) Set(ctx context.Context, symptomText string, analysis *domain.SymptomAnalysis) error {
	key := c.cacheKey(symptomText)

	cached := cachedAnalysis{
		Analysis:  analysis,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(c.ttl),
	}
	c.memory.Add(key, cached)

	if c.redis == nil {
		return nil
	}

	payload, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write Redis cache: %w", err)
	}
	return nil
}

// Purge clears the memory tier. Redis entries expire by TTL.
func (c *AnalyzerCache) Purge() {
	c.memory.Purge()
}

// Len reports the number of live memory-tier entries.
func (c *AnalyzerCache) Len() int {
	return c.memory.Len()
}

// Close releases the Redis connection if one exists.
func (c *AnalyzerCache) Close() error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Close()
}

// cacheKey hashes the narrative so arbitrarily long patient text never
// becomes a storage key.
func (c *AnalyzerCache) cacheKey(symptomText string) string {
	hash := sha256.Sum256([]byte(symptomText))
	return fmt.Sprintf("analysis:symptom:%x", hash[:12])
}
