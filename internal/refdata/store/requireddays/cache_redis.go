package requireddays

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"doctrack/internal/refdata/models"
	id "doctrack/pkg/domain"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doctrack_sla_cache_hits_total",
		Help: "Required-days lookups served from Redis",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doctrack_sla_cache_misses_total",
		Help: "Required-days lookups that fell through to the store",
	})
)

const cacheKeyPrefix = "sla:days:"

func cacheKey(documentType, actionRequired string) string {
	return cacheKeyPrefix +
		strings.ToLower(strings.TrimSpace(documentType)) + ":" +
		strings.ToLower(strings.TrimSpace(actionRequired))
}

// RedisCache decorates a Store with a read-through cache on the lookup path.
// Writes go straight to the store and invalidate the pair they touch; a pair
// removed out of band stays cached until the TTL lapses, which is acceptable
// staleness for a slow-moving reference table.
//
// A Redis failure never fails a lookup; the cache degrades to the store.
type RedisCache struct {
	store  Store
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps store with a Redis read-through cache.
func NewRedisCache(store Store, client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{store: store, client: client, ttl: ttl}
}

func (c *RedisCache) RequiredDays(ctx context.Context, documentType, actionRequired string) (int, error) {
	key := cacheKey(documentType, actionRequired)

	// A key miss, a Redis failure, and an unparsable value all land on the
	// same path: the store answers and the lookup never fails on the cache.
	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if days, parseErr := strconv.Atoi(raw); parseErr == nil {
			cacheHits.Inc()
			return days, nil
		}
	}
	cacheMisses.Inc()

	days, err := c.store.RequiredDays(ctx, documentType, actionRequired)
	if err != nil {
		return 0, err
	}
	_ = c.client.Set(ctx, key, strconv.Itoa(days), c.ttl).Err()
	return days, nil
}

func (c *RedisCache) Insert(ctx context.Context, entry *models.RequiredDaysEntry) error {
	if err := c.store.Insert(ctx, entry); err != nil {
		return err
	}
	c.invalidate(ctx, entry.DocumentType, entry.ActionRequired)
	return nil
}

func (c *RedisCache) Update(ctx context.Context, entry *models.RequiredDaysEntry) error {
	if err := c.store.Update(ctx, entry); err != nil {
		return err
	}
	c.invalidate(ctx, entry.DocumentType, entry.ActionRequired)
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, entryID id.RequiredDaysID) error {
	entry := c.findByID(ctx, entryID)
	if err := c.store.Delete(ctx, entryID); err != nil {
		return err
	}
	if entry != nil {
		c.invalidate(ctx, entry.DocumentType, entry.ActionRequired)
	}
	return nil
}

func (c *RedisCache) BulkDelete(ctx context.Context, ids []id.RequiredDaysID) error {
	victims := make([]*models.RequiredDaysEntry, 0, len(ids))
	for _, entryID := range ids {
		if entry := c.findByID(ctx, entryID); entry != nil {
			victims = append(victims, entry)
		}
	}
	if err := c.store.BulkDelete(ctx, ids); err != nil {
		return err
	}
	for _, entry := range victims {
		c.invalidate(ctx, entry.DocumentType, entry.ActionRequired)
	}
	return nil
}

func (c *RedisCache) List(ctx context.Context) ([]*models.RequiredDaysEntry, error) {
	return c.store.List(ctx)
}

func (c *RedisCache) invalidate(ctx context.Context, documentType, actionRequired string) {
	_ = c.client.Del(ctx, cacheKey(documentType, actionRequired)).Err()
}

func (c *RedisCache) findByID(ctx context.Context, entryID id.RequiredDaysID) *models.RequiredDaysEntry {
	entries, err := c.store.List(ctx)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if entry.ID == entryID {
			return entry
		}
	}
	return nil
}
