package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	_, ok := store.Get(ctx, "missing")
	assert.False(t, ok)

	store.Set(ctx, "k", 42)
	got, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	store.Delete(ctx, "k")
	_, ok = store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewStore(10 * time.Millisecond)

	store.Set(ctx, "k", "v")
	_, ok := store.Get(ctx, "k")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestStoreZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)

	store.Set(ctx, "k", "v")
	time.Sleep(5 * time.Millisecond)
	_, ok := store.Get(ctx, "k")
	assert.True(t, ok)
}

func TestInvalidateSeasonDropsAllViews(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	store.Set(ctx, SeasonKey(7, "overview"), 1)
	store.Set(ctx, SeasonKey(7, "standings"), 2)
	store.Set(ctx, SeasonKey(8, "overview"), 3)

	store.InvalidateSeason(ctx, 7)

	_, ok := store.Get(ctx, SeasonKey(7, "overview"))
	assert.False(t, ok)
	_, ok = store.Get(ctx, SeasonKey(7, "standings"))
	assert.False(t, ok)
	_, ok = store.Get(ctx, SeasonKey(8, "overview"))
	assert.True(t, ok, "other seasons stay cached")
}

func TestGetOrLoadCachesResult(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return "loaded", nil
	}

	got, err := store.GetOrLoad(ctx, "k", loader)
	require.NoError(t, err)
	assert.Equal(t, "loaded", got)

	got, err = store.GetOrLoad(ctx, "k", loader)
	require.NoError(t, err)
	assert.Equal(t, "loaded", got)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoadPropagatesError(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	boom := errors.New("load failed")
	_, err := store.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	// A failed load caches nothing.
	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestGetOrLoadCollapsesConcurrentCalls(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	var mu sync.Mutex
	calls := 0
	release := make(chan struct{})
	loader := func(context.Context) (any, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := store.GetOrLoad(ctx, "k", loader)
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}

	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
	for _, got := range results {
		assert.Equal(t, "shared", got)
	}
}
