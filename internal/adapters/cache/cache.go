// Package cache memoizes ranked search results until the catalog changes.
//
// Entries never expire and are never evicted one by one: the only way an
// entry leaves the cache is InvalidateAll, which drops every entry at once
// and advances the epoch.
package cache

import (
	"context"
	"sync/atomic"

	"github.com/jellydator/ttlcache/v3"

	"github.com/okian/tastesearch/internal/domain/model"
	"github.com/okian/tastesearch/pkg/logger"
	"github.com/okian/tastesearch/pkg/metrics"
)

// Cache is the contract the query path depends on.
type Cache interface {
	// Lookup returns the cached results for q. A miss is reported through
	// the boolean and is never an error. The slice is shared with the cache
	// and must not be modified.
	Lookup(ctx context.Context, q model.Query) ([]model.SearchResult, bool)
	// Store memoizes results for q.
	Store(ctx context.Context, q model.Query, results []model.SearchResult)
	// InvalidateAll drops every entry and returns the new epoch.
	InvalidateAll(ctx context.Context) uint64
	// Epoch returns the current cache generation.
	Epoch() uint64
	// Len returns the number of cached result sets.
	Len() int
}

// ResultCache implements Cache on top of ttlcache with expiry disabled.
// The key is the structured query, so distinct (text, sort, direction)
// triples can never collide.
type ResultCache struct {
	items  *ttlcache.Cache[model.Query, []model.SearchResult]
	epoch  atomic.Uint64
	logger logger.Logger
}

// New creates an empty result cache at epoch 1.
func New(opts ...Option) *ResultCache {
	c := &ResultCache{
		items: ttlcache.New[model.Query, []model.SearchResult](
			ttlcache.WithTTL[model.Query, []model.SearchResult](ttlcache.NoTTL),
			ttlcache.WithDisableTouchOnHit[model.Query, []model.SearchResult](),
		),
		logger: logger.Nop(),
	}
	c.epoch.Store(1)

	for _, opt := range opts {
		opt(c)
	}

	metrics.UpdateCacheEpoch(c.epoch.Load())
	metrics.UpdateCacheEntries(0)
	return c
}

// Lookup returns the cached results for q.
func (c *ResultCache) Lookup(ctx context.Context, q model.Query) ([]model.SearchResult, bool) {
	item := c.items.Get(q)
	if item == nil {
		metrics.RecordCacheMiss()
		c.logger.Debug(ctx, "cache miss", logger.String("query", q.Text))
		return nil, false
	}
	metrics.RecordCacheHit()
	c.logger.Debug(ctx, "retrieved from cache", logger.String("query", q.Text))
	return item.Value(), true
}

// Store memoizes results for q, replacing any previous entry.
func (c *ResultCache) Store(ctx context.Context, q model.Query, results []model.SearchResult) {
	c.items.Set(q, results, ttlcache.NoTTL)
	metrics.RecordCacheStore()
	metrics.UpdateCacheEntries(c.items.Len())
	c.logger.Debug(ctx, "storing in cache",
		logger.String("query", q.Text),
		logger.Int("results", len(results)),
	)
}

// InvalidateAll clears every entry and advances the epoch.
func (c *ResultCache) InvalidateAll(ctx context.Context) uint64 {
	c.items.DeleteAll()
	epoch := c.epoch.Add(1)

	metrics.RecordCacheInvalidation()
	metrics.UpdateCacheEntries(0)
	metrics.UpdateCacheEpoch(epoch)
	c.logger.Debug(ctx, "cache invalidated", logger.Uint64("epoch", epoch))
	return epoch
}

// Epoch returns the current cache generation.
func (c *ResultCache) Epoch() uint64 {
	return c.epoch.Load()
}

// Len returns the number of cached result sets.
func (c *ResultCache) Len() int {
	return c.items.Len()
}
