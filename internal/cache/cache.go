package cache

import (
	"context"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tonicwater/backend/internal/logger"
	"github.com/tonicwater/backend/internal/utils"
)

// TTLs per cached namespace.
const (
	GinTTL      = 5 * time.Minute
	CategoryTTL = time.Hour
	ArticleTTL  = 5 * time.Minute
)

// Cache is a TTL response cache in front of the stores, keyed by request
// path + query string. It holds no authoritative state: a cache that never
// hits is still correct, so every method is a no-op when Redis is absent.
type Cache struct {
	log *logger.Logger
	rdb *goredis.Client
}

// New connects to Redis when REDIS_ADDR is set and reachable; otherwise it
// returns a cache that never hits.
func New(baseLog *logger.Logger) *Cache {
	log := baseLog.With("service", "Cache")

	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", baseLog))
	if addr == "" {
		log.Warn("REDIS_ADDR not set, response cache disabled")
		return &Cache{log: log}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, response cache disabled", "addr", addr, "error", err)
		_ = rdb.Close()
		return &Cache{log: log}
	}

	log.Info("Response cache enabled", "addr", addr)
	return &Cache{log: log, rdb: rdb}
}

// NewWithClient wraps an existing Redis client, mainly for tests.
func NewWithClient(baseLog *logger.Logger, rdb *goredis.Client) *Cache {
	return &Cache{log: baseLog.With("service", "Cache"), rdb: rdb}
}

// Key builds the cache key for a request.
func Key(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}

// TTLFor returns the TTL for a GET path, or zero when the path is uncached.
// Article listings are deliberately uncached; only single articles are.
func TTLFor(path string) time.Duration {
	switch {
	case path == "/api/categories":
		return CategoryTTL
	case path == "/api/gins" || strings.HasPrefix(path, "/api/gins/"):
		return GinTTL
	case strings.HasPrefix(path, "/api/articles/"):
		return ArticleTTL
	default:
		return 0
	}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *Cache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if c == nil || c.rdb == nil || ttl <= 0 {
		return
	}
	if err := c.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.log.Warn("Cache set failed", "key", key, "error", err)
	}
}

// Invalidate drops a single cached key, including any query-string variants.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	c.InvalidatePrefix(ctx, key)
}

// InvalidatePrefix scans and deletes every cached entry under a namespace.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil || c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn("Cache delete failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("Cache scan failed", "prefix", prefix, "error", err)
	}
}

func (c *Cache) Close() {
	if c != nil && c.rdb != nil {
		_ = c.rdb.Close()
	}
}
