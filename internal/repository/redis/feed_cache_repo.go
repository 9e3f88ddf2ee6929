package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultFeedTTL    = 20 * time.Second
	LockTTL           = 300 * time.Millisecond
	FeedEpochKey      = "feed:epoch"
	FeedPageKeyPrefix = "feed:page"
	LockKeyPrefix     = "lock:feed"
)

// FeedCacheRepository stores rendered feed pages. Keys embed the current
// epoch, so bumping the epoch orphans every cached page at once and TTL reclaims them.
type FeedCacheRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

type DistLock struct {
	RDB *redis.Client
}

func NewFeedCacheRepository(rdb *redis.Client, ttl time.Duration) *FeedCacheRepository {
	if ttl <= 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCacheRepository{rdb: rdb, ttl: ttl}
}

func (r *FeedCacheRepository) pageKey(key string) string {
	return fmt.Sprintf("%s:%s", FeedPageKeyPrefix, key)
}

// Epoch returns the current cache epoch; a missing counter is epoch 0.
func (r *FeedCacheRepository) Epoch(ctx context.Context) (int64, error) {
	v, err := r.rdb.Get(ctx, FeedEpochKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Bump advances the epoch. Called after a write commits.
func (r *FeedCacheRepository) Bump(ctx context.Context) error {
	return r.rdb.Incr(ctx, FeedEpochKey).Err()
}

// Get reports ok=false on a miss.
func (r *FeedCacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.rdb.Get(ctx, r.pageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *FeedCacheRepository) Set(ctx context.Context, key string, val []byte) error {
	return r.rdb.Set(ctx, r.pageKey(key), val, r.ttl).Err()
}

// Lock returns a rebuild lock on the same client.
func (r *FeedCacheRepository) Lock() *DistLock {
	return &DistLock{RDB: r.rdb}
}

// Acquire takes the rebuild lock for key if nobody holds it.
func (l *DistLock) Acquire(ctx context.Context, key, token string) (bool, error) {
	return l.RDB.SetNX(ctx, fmt.Sprintf("%s:%s", LockKeyPrefix, key), token, LockTTL).Result()
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`)

// Release deletes the lock only if token still owns it.
func (l *DistLock) Release(ctx context.Context, key, token string) error {
	_, err := releaseScript.Run(ctx, l.RDB, []string{fmt.Sprintf("%s:%s", LockKeyPrefix, key)}, token).Result()
	return err
}
