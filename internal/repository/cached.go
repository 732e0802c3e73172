package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
)

// DefaultCacheTTL bounds how long a cached collection or entity is served.
const DefaultCacheTTL = 15 * time.Minute

// CachedStore is a cache-aside decorator over another Store. Reads try Redis
// first; every successful write drops the collection key and the entity key.
// Redis failures are logged and fall through to the wrapped store.
type CachedStore[T Entity[T]] struct {
	next   Store[T]
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
	log    *log.Helper
}

// NewCachedStore wraps next. prefix namespaces the keys, e.g. "catalog:movies".
func NewCachedStore[T Entity[T]](next Store[T], rdb redis.Cmdable, prefix string, ttl time.Duration, logger log.Logger) *CachedStore[T] {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = log.DefaultLogger
	}
	return &CachedStore[T]{
		next:   next,
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
		log:    log.NewHelper(log.With(logger, "module", "repository/cache")),
	}
}

// NewCached wraps every store of repo with a Redis cache.
func NewCached(repo *Repository, rdb redis.Cmdable, ttl time.Duration, logger log.Logger) *Repository {
	return &Repository{
		Movies: NewCachedStore[domain.Movie](repo.Movies, rdb, "catalog:movies", ttl, logger),
		Actors: NewCachedStore[domain.Actor](repo.Actors, rdb, "catalog:actors", ttl, logger),
		Genres: NewCachedStore[domain.Genre](repo.Genres, rdb, "catalog:genres", ttl, logger),
	}
}

func (c *CachedStore[T]) allKey() string { return c.prefix + ":all" }
func (c *CachedStore[T]) entityKey(id int) string { return fmt.Sprintf("%s:%d", c.prefix, id) }

// List serves the whole collection from cache when present.
func (c *CachedStore[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if c.load(ctx, c.allKey(), &items) {
		return items, nil
	}
	items, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, c.allKey(), items)
	return items, nil
}

// Get serves a single entity from cache when present.
func (c *CachedStore[T]) Get(ctx context.Context, id int) (T, error) {
	var item T
	if c.load(ctx, c.entityKey(id), &item) {
		return item, nil
	}
	item, err := c.next.Get(ctx, id)
	if err != nil {
		return item, err
	}
	c.store(ctx, c.entityKey(id), item)
	return item, nil
}

func (c *CachedStore[T]) Create(ctx context.Context, entity T) (T, error) {
	created, err := c.next.Create(ctx, entity)
	if err != nil {
		return created, err
	}
	c.invalidate(ctx)
	return created, nil
}

func (c *CachedStore[T]) Update(ctx context.Context, entity T) (T, error) {
	updated, err := c.next.Update(ctx, entity)
	if err != nil {
		return updated, err
	}
	c.invalidate(ctx, c.entityKey(updated.EntityID()))
	return updated, nil
}

func (c *CachedStore[T]) Delete(ctx context.Context, id int) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, c.entityKey(id))
	return nil
}

func (c *CachedStore[T]) load(ctx context.Context, key string, dst any) bool {
	cached, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("cache get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(cached, dst); err != nil {
		c.log.Warnf("cache decode %s: %v", key, err)
		return false
	}
	c.log.Debugf("cache hit: %s", key)
	return true
}

func (c *CachedStore[T]) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warnf("cache encode %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warnf("cache set %s: %v", key, err)
	}
}

func (c *CachedStore[T]) invalidate(ctx context.Context, keys ...string) {
	keys = append(keys, c.allKey())
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warnf("cache invalidate %v: %v", keys, err)
	}
}
