package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
)

// countingStore records calls reaching the wrapped store.
type countingStore[T Entity[T]] struct {
	Store[T]
	lists int
	gets  int
}

func (c *countingStore[T]) List(ctx context.Context) ([]T, error) {
	c.lists++
	return c.Store.List(ctx)
}

func (c *countingStore[T]) Get(ctx context.Context, id int) (T, error) {
	c.gets++
	return c.Store.Get(ctx, id)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func quietLogger() log.Logger {
	return log.NewStdLogger(io.Discard)
}

func TestCachedStore_Contract(t *testing.T) {
	_, rdb := newTestRedis(t)
	st := NewCachedStore[domain.Movie](NewMemoryStore[domain.Movie](nil), rdb, "test:movies", time.Minute, quietLogger())
	runMovieStoreContract(t, st)
}

func TestCachedStore_ReadThrough(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	inner := &countingStore[domain.Movie]{Store: NewMemoryStore([]domain.Movie{sampleMovie("Forrest Gump").WithID(1)})}
	st := NewCachedStore[domain.Movie](inner, rdb, "catalog:movies", time.Minute, quietLogger())

	for i := 0; i < 3; i++ {
		all, err := st.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("list len = %d", len(all))
		}
		got, err := st.Get(ctx, 1)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if types := got.Oscars.Types(); len(types) != 3 || types[0] != "bestPicture" {
			t.Fatalf("cached oscars order = %v", types)
		}
	}
	if inner.lists != 1 || inner.gets != 1 {
		t.Fatalf("inner calls lists=%d gets=%d, want 1 each", inner.lists, inner.gets)
	}
	if !mr.Exists("catalog:movies:all") || !mr.Exists("catalog:movies:1") {
		t.Fatalf("expected cache keys, have %v", mr.Keys())
	}
	if ttl := mr.TTL("catalog:movies:1"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}
}

func TestCachedStore_InvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	inner := &countingStore[domain.Movie]{Store: NewMemoryStore([]domain.Movie{sampleMovie("Forrest Gump").WithID(1)})}
	st := NewCachedStore[domain.Movie](inner, rdb, "catalog:movies", time.Minute, quietLogger())

	got, _ := st.Get(ctx, 1)
	_, _ = st.List(ctx)

	got.Rating = 1.5
	if _, err := st.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if mr.Exists("catalog:movies:1") || mr.Exists("catalog:movies:all") {
		t.Fatalf("keys survived update: %v", mr.Keys())
	}
	again, _ := st.Get(ctx, 1)
	if again.Rating != 1.5 {
		t.Fatalf("stale read after update: %v", again.Rating)
	}

	if _, err := st.Create(ctx, sampleMovie("Cast Away")); err != nil {
		t.Fatalf("create: %v", err)
	}
	all, _ := st.List(ctx)
	if len(all) != 2 {
		t.Fatalf("list after create len = %d, want 2", len(all))
	}

	if err := st.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Get(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete err = %v", err)
	}
}

func TestCachedStore_RedisDownFallsThrough(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	st := NewCachedStore[domain.Genre](NewMemoryStore([]domain.Genre{{ID: 1, Name: "Drama"}}), rdb, "catalog:genres", time.Minute, quietLogger())
	mr.Close()

	all, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list with redis down: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len = %d, want 1", len(all))
	}
}

func TestNewCached_WrapsEveryStore(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewCached(NewMemory(domain.Catalog{}), rdb, 0, quietLogger())
	t.Run("actors", func(t *testing.T) { runActorStoreContract(t, repo.Actors) })
	t.Run("genres", func(t *testing.T) { runGenreStoreContract(t, repo.Genres) })
}
