package service

import (
	"context"
	"encoding/json"
	"fmt"

	"Yatube/internal/model"
	"Yatube/internal/pkg"
	"Yatube/internal/pkg/logger"

	"github.com/google/uuid"
)

// FeedCache is the page cache port in front of the composer.
type FeedCache interface {
	Epoch(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte) error
}

// Invalidator is told after every committed write.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// RebuildLocker lets one request rebuild a missed page while others wait on the cache.
type RebuildLocker interface {
	Acquire(ctx context.Context, key, token string) (bool, error)
	Release(ctx context.Context, key, token string) error
}

// NopCache never hits. Used when redis is disabled.
type NopCache struct{}

func (NopCache) Epoch(context.Context) (int64, error) { return 0, nil }
func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, string, []byte) error { return nil }
func (NopCache) Bump(context.Context) error { return nil }

// CachedComposer serves pages keyed by (scope, page, epoch). Any cache failure
// falls through to the wrapped composer, so output never depends on the cache.
type CachedComposer struct {
	next  FeedComposer
	cache FeedCache
	lock  RebuildLocker
}

func NewCachedComposer(next FeedComposer, cache FeedCache, lock RebuildLocker) *CachedComposer {
	return &CachedComposer{next: next, cache: cache, lock: lock}
}

// cacheKey uses the requested page as given; the composer decides which page it maps to.
func cacheKey(scope Scope, page int, epoch int64) string {
	return fmt.Sprintf("%s:p%d:e%d", scope.Key(), page, epoch)
}

func (c *CachedComposer) Compose(ctx context.Context, scope Scope, page int) (pkg.Page[model.Post], error) {
	epoch, err := c.cache.Epoch(ctx)
	if err != nil {
		logger.Warn("feed_cache_epoch_failed", map[string]any{"scope": scope.Key(), "error": err.Error()})
		return c.next.Compose(ctx, scope, page)
	}
	key := cacheKey(scope, page, epoch)

	if p, ok := c.lookup(ctx, key); ok {
		return p, nil
	}

	if c.lock != nil {
		token := uuid.NewString()
		if got, _ := c.lock.Acquire(ctx, key, token); got {
			defer func() {
				if err := c.lock.Release(ctx, key, token); err != nil {
					logger.Warn("feed_cache_unlock_failed", map[string]any{"key": key, "error": err.Error()})
				}
			}()
			// second check: another request may have filled it while we waited
			if p, ok := c.lookup(ctx, key); ok {
				return p, nil
			}
		}
	}

	p, err := c.next.Compose(ctx, scope, page)
	if err != nil {
		return p, err
	}
	if data, err := json.Marshal(p); err == nil {
		if err := c.cache.Set(ctx, key, data); err != nil {
			logger.Warn("feed_cache_set_failed", map[string]any{"key": key, "error": err.Error()})
		}
	}
	return p, nil
}

func (c *CachedComposer) lookup(ctx context.Context, key string) (pkg.Page[model.Post], bool) {
	var p pkg.Page[model.Post]
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("feed_cache_get_failed", map[string]any{"key": key, "error": err.Error()})
		return p, false
	}
	if !ok {
		return p, false
	}
	if err := json.Unmarshal(data, &p); err != nil {
		logger.Warn("feed_cache_decode_failed", map[string]any{"key": key, "error": err.Error()})
		return p, false
	}
	return p, true
}

// invalidate bumps the cache epoch after a commit. Failure only leaves pages
// stale until their TTL runs out, so it is logged, not returned.
func invalidate(ctx context.Context, inv Invalidator, action string) {
	if inv == nil {
		return
	}
	if err := inv.Bump(ctx); err != nil {
		logger.Error("feed_cache_invalidate_failed", err, map[string]any{"after": action})
	}
}
