// Package cache keeps evaluated query results in Redis. Concurrent misses for
// the same query collapse into one evaluation through singleflight.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/redis"
)

const keyPrefix = "search:"

// Store is the subset of pkg/redis.Client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

type QueryCache struct {
	store     Store
	ttl       time.Duration
	namespace string
	metrics   *metrics.Metrics
	group     singleflight.Group
	logger    *slog.Logger
	hits      atomic.Int64
	misses    atomic.Int64
}

// New returns a cache over store. namespace identifies the index the results
// came from, so results of an older index are never served for a new one.
// m may be nil.
func New(store Store, ttl time.Duration, namespace string, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:     store,
		ttl:       ttl,
		namespace: namespace,
		metrics:   m,
		logger:    slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached result for q. Redis failures count as misses.
func (c *QueryCache) Get(ctx context.Context, q string) (*query.Result, bool) {
	key := c.buildKey(q)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.miss()
		return nil, false
	}
	var result query.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
	c.logger.Debug("cache hit", "query", q, "key", key)
	return &result, true
}

func (c *QueryCache) Set(ctx context.Context, q string, result *query.Result) {
	key := c.buildKey(q)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute serves q from the cache or runs compute once for all
// concurrent callers. Errors are returned and not cached.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	q string,
	compute func() (*query.Result, error),
) (*query.Result, bool, error) {
	if result, ok := c.Get(ctx, q); ok {
		return result, true, nil
	}
	val, err, _ := c.group.Do(c.buildKey(q), func() (any, error) {
		result, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(context.WithoutCancel(ctx), q, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*query.Result), false, nil
}

// Namespace combines an index fingerprint with the Boolean term limit. A
// result computed under a looser limit must not answer a stricter one.
func Namespace(fingerprint string, maxBooleanTerms int) string {
	return fmt.Sprintf("%s-t%d", fingerprint, maxBooleanTerms)
}

// Invalidate deletes every cached result, whatever its namespace.
func (c *QueryCache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return deleted, fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return deleted, nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) miss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

// buildKey hashes the trimmed query verbatim. Boolean evaluation depends on
// token order and operator case is folded only per token, so no further
// canonicalisation is safe.
func (c *QueryCache) buildKey(q string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(q)))
	return fmt.Sprintf("%s%s:%x", keyPrefix, c.namespace, hash[:16])
}
