package querycache

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offroutechronicles/offroute-server/internal/config"
)

func newBadgerCache(t *testing.T) *Cache {
	t.Helper()
	store, err := OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, time.Minute)
}

func TestKey_PrefixMatchesWholeParts(t *testing.T) {
	assert.True(t, K("posts", "-created_date").HasPrefix(K("posts")))
	assert.True(t, K("posts").HasPrefix(K("posts")))
	assert.False(t, K("postsByDestination", "1").HasPrefix(K("posts")))
	assert.False(t, K("posts").HasPrefix(K("posts", "-created_date")))
	assert.True(t, K("userReaction", "blog_post", "1", "guest_1").HasPrefix(K("userReaction", "blog_post", "1")))
}

func TestKey_SeparatorInPartsCannotForgeBoundaries(t *testing.T) {
	forged := K("post", "1\x1fextra")
	assert.NotEqual(t, K("post", "1", "extra").String(), forged.String())
	assert.False(t, forged.HasPrefix(K("post", "1")))
	assert.False(t, K("post", "1", "extra").HasPrefix(forged))

	assert.NotEqual(t, K("a\x1b", "b").String(), K("a", "\x1bb").String())
	assert.NotEqual(t, K("a\x1b\x1f").String(), K("a\x1f").String())
	assert.True(t, K("post", "1\x1fextra", "gallery").HasPrefix(forged))
}

func TestInvalidate_SeparatorInIDKeepsSiblings(t *testing.T) {
	c := newBadgerCache(t)
	ctx := context.Background()
	load := func(v int) func(context.Context) (int, error) {
		return func(context.Context) (int, error) { return v, nil }
	}

	_, err := Fetch(ctx, c, K("post", "1"), load(1))
	require.NoError(t, err)
	_, err = Fetch(ctx, c, K("post", "1\x1fextra"), load(2))
	require.NoError(t, err)

	c.Invalidate(ctx, K("post", "1\x1fextra"))

	v, err := Fetch(ctx, c, K("post", "1"), load(99))
	require.NoError(t, err)
	assert.Equal(t, 1, v, "sibling entry survives")
}

func TestFetch_HitSkipsLoader(t *testing.T) {
	c := newBadgerCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	got, err := Fetch(ctx, c, K("posts", "-created_date"), load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got, err = Fetch(ctx, c, K("posts", "-created_date"), load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, calls)

	stats := c.Stats()
	assert.Equal(t, "badger", stats.Store)
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	c := newBadgerCache(t)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := Fetch(ctx, c, K("post", "1"), func(context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)

	got, err := Fetch(ctx, c, K("post", "1"), func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestFetch_CollapsesConcurrentMisses(t *testing.T) {
	c := New(Nop{}, time.Minute)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const callers = 20
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Fetch(ctx, c, K("destinations"), load)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	// Let the callers pile up on the in-flight load.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(2))
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestFetch_CallersGetIndependentCopies(t *testing.T) {
	c := newBadgerCache(t)
	ctx := context.Background()

	first, err := Fetch(ctx, c, K("gallery", "1"), func(context.Context) ([]string, error) {
		return []string{"x"}, nil
	})
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := Fetch(ctx, c, K("gallery", "1"), func(context.Context) ([]string, error) {
		return nil, errors.New("unexpected load")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, second)
}

func TestFetch_NilCacheCallsLoader(t *testing.T) {
	calls := 0
	for range 2 {
		v, err := Fetch(context.Background(), nil, K("posts"), func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
		assert.Equal(t, calls, v)
	}
	assert.Equal(t, 2, calls)
}

func TestFetch_NopAlwaysLoads(t *testing.T) {
	c := New(Nop{}, time.Minute)
	calls := 0
	for range 3 {
		_, err := Fetch(context.Background(), c, K("posts"), func(context.Context) (int, error) {
			calls++
			return 1, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestInvalidate_DropsDescendantsOnly(t *testing.T) {
	var invalidated []Key
	store, err := OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	c := New(store, time.Minute, OnInvalidate(func(k Key) { invalidated = append(invalidated, k) }))
	ctx := context.Background()

	keys := []Key{
		K("posts", "-created_date"),
		K("posts", "created_date"),
		K("postsByDestination", "1"),
		K("post", "1"),
	}
	for _, k := range keys {
		require.NoError(t, Set(ctx, c, k, "cached"))
	}

	c.Invalidate(ctx, K("posts"))

	loads := map[string]int{}
	for _, k := range keys {
		_, err := Fetch(ctx, c, k, func(context.Context) (string, error) {
			loads[k.String()]++
			return "loaded", nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, loads[K("posts", "-created_date").String()])
	assert.Equal(t, 1, loads[K("posts", "created_date").String()])
	assert.Zero(t, loads[K("postsByDestination", "1").String()])
	assert.Zero(t, loads[K("post", "1").String()])
	assert.Equal(t, []Key{K("posts")}, invalidated)
}

func TestBadger_EntriesExpire(t *testing.T) {
	store, err := OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	// badger TTLs have one-second resolution.
	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Second))
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok, err := store.Get(ctx, "k")
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}

func TestBadger_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, K("destinations").String(), []byte(`["x"]`), time.Hour))
	require.NoError(t, store.Close())

	store, err = OpenBadger(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	val, ok, err := store.Get(ctx, K("destinations").String())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["x"]`, string(val))
}

func TestRedis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	store, err := OpenRedis(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	c := New(store, time.Minute)
	ctx := context.Background()
	c.Invalidate(ctx, K("test*"))

	require.NoError(t, Set(ctx, c, K("test*", "a"), 1))
	require.NoError(t, Set(ctx, c, K("test*x", "b"), 2))
	c.Invalidate(ctx, K("test*"))

	_, ok, err := store.Get(ctx, K("test*", "a").String())
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Get(ctx, K("test*x", "b").String())
	require.NoError(t, err)
	assert.True(t, ok)

	c.Invalidate(ctx, K("test*x"))
}

func TestGlobEscape(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]\\`, globEscape(`a*b?c[d]\`))
}

func TestOpen(t *testing.T) {
	c, err := Open(config.CacheConfig{Backend: config.CacheNone}, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "none", c.Stats().Store)
	assert.Equal(t, DefaultStaleTime, c.StaleTime())

	c, err = Open(config.CacheConfig{Backend: config.CacheBadger, StaleTime: time.Second}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	assert.Equal(t, "badger", c.Stats().Store)
	assert.Equal(t, time.Second, c.StaleTime())

	_, err = Open(config.CacheConfig{Backend: "memcached"}, slog.Default())
	assert.Error(t, err)
}

func TestFetchWhen_SkipsStoreWhenRejected(t *testing.T) {
	c := newBadgerCache(t)
	ctx := context.Background()
	onlyPositive := func(v int) bool { return v > 0 }

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls - 1, nil
	}

	v, err := FetchWhen(ctx, c, K("reactions", "blog_post", "1"), load, onlyPositive)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	v, err = FetchWhen(ctx, c, K("reactions", "blog_post", "1"), load, onlyPositive)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = FetchWhen(ctx, c, K("reactions", "blog_post", "1"), load, onlyPositive)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, calls)
}
