package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

var _ domain.KeyValueStore = (*CachedStore)(nil)

const DefaultCacheTTL = 30 * time.Minute

// CachedStore puts a redis read-through cache in front of a slower store. Cache
// errors are logged and never fail a call; writes go to the store first and then
// drop the cached copy.
//
// Every write also bumps a per-key generation counter. A read only fills the cache
// inside a transaction watching that counter, so a fill racing with a write is
// discarded instead of caching the value the write replaced.
type CachedStore struct {
	next  domain.KeyValueStore
	cache *redis.Client
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewCachedStore(next domain.KeyValueStore, cache *redis.Client, ttl time.Duration, log logrus.FieldLogger) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func (s *CachedStore) cacheKey(key string) string {
	return fmt.Sprintf("kvcache:%s", key)
}

func (s *CachedStore) genKey(key string) string {
	return fmt.Sprintf("kvgen:%s", key)
}

func (s *CachedStore) invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	pipe := s.cache.TxPipeline()
	for _, k := range keys {
		pipe.Del(ctx, s.cacheKey(k))
		pipe.Incr(ctx, s.genKey(k))
		pipe.Expire(ctx, s.genKey(k), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.WithError(err).WithField("keys", len(keys)).Warn("[CACHE] Failed to invalidate")
	}
}

func (s *CachedStore) Get(ctx context.Context, key string) (string, bool, error) {
	ck := s.cacheKey(key)

	val, err := s.cache.Get(ctx, ck).Result()
	if err == nil {
		return val, true, nil
	}
	if !errors.Is(err, redis.Nil) {
		s.log.WithError(err).WithField("key", key).Warn("[CACHE] Redis read error")
	}

	var (
		found    bool
		read     bool
		storeErr error
	)
	err = s.cache.Watch(ctx, func(tx *redis.Tx) error {
		val, found, storeErr = s.next.Get(ctx, key)
		read = true
		if storeErr != nil || !found {
			return nil
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, ck, val, s.ttl)
			return nil
		})
		return err
	}, s.genKey(key))

	switch {
	case errors.Is(err, redis.TxFailedErr):
		s.log.WithField("key", key).Debug("[CACHE] Key written during fill, not cached")
	case err != nil:
		s.log.WithError(err).WithField("key", key).Warn("[CACHE] Redis set error")
	}

	if !read {
		return s.next.Get(ctx, key)
	}
	return val, found, storeErr
}

func (s *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := s.next.Set(ctx, key, value); err != nil {
		return err
	}
	s.invalidate(ctx, key)
	return nil
}

func (s *CachedStore) RemoveMany(ctx context.Context, keys []string) error {
	if err := s.next.RemoveMany(ctx, keys); err != nil {
		return err
	}
	s.invalidate(ctx, keys...)
	return nil
}

func (s *CachedStore) ListKeys(ctx context.Context) ([]string, error) {
	return s.next.ListKeys(ctx)
}

func (s *CachedStore) ListKeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	if pl, ok := s.next.(PrefixLister); ok {
		return pl.ListKeysWithPrefix(ctx, prefix)
	}
	return s.next.ListKeys(ctx)
}
