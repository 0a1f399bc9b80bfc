package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryExportGuard_Acquire(t *testing.T) {
	guard := NewInMemoryExportGuard(time.Hour)
	defer guard.Close()

	ctx := context.Background()

	t.Run("first acquire wins", func(t *testing.T) {
		ok, err := guard.Acquire(ctx, "doc-1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, held(t, guard, "doc-1"))
	})

	t.Run("second acquire for the same key loses", func(t *testing.T) {
		ok, err := guard.Acquire(ctx, "doc-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other keys are independent", func(t *testing.T) {
		ok, err := guard.Acquire(ctx, "doc-2")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("release frees the key", func(t *testing.T) {
		require.NoError(t, guard.Release(ctx, "doc-1"))
		assert.False(t, held(t, guard, "doc-1"))

		ok, err := guard.Acquire(ctx, "doc-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("releasing a free key is a no-op", func(t *testing.T) {
		assert.NoError(t, guard.Release(ctx, "never-held"))
	})
}

func TestInMemoryExportGuard_Expiry(t *testing.T) {
	guard := NewInMemoryExportGuard(time.Minute)
	defer guard.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	guard.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := guard.Acquire(ctx, "doc-1")
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(59 * time.Second)
	ok, _ = guard.Acquire(ctx, "doc-1")
	assert.False(t, ok, "still held before the ttl")

	now = now.Add(2 * time.Second)
	assert.False(t, held(t, guard, "doc-1"))
	ok, _ = guard.Acquire(ctx, "doc-1")
	assert.True(t, ok, "a lapsed holder no longer blocks")

	now = now.Add(2 * time.Minute)
	guard.cleanup()
	assert.Equal(t, 0, guard.Size())
}

func TestInMemoryExportGuard_Concurrent(t *testing.T) {
	guard := NewInMemoryExportGuard(time.Hour)
	defer guard.Close()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := guard.Acquire(context.Background(), "doc-1"); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestInMemoryExportGuard_Close(t *testing.T) {
	guard := NewInMemoryExportGuard(0)
	assert.Equal(t, DefaultGuardTTL, guard.ttl)

	assert.NoError(t, guard.Close())
	assert.NoError(t, guard.Close(), "close is idempotent")
}

func TestNewRedisExportGuard_Defaults(t *testing.T) {
	guard := NewRedisExportGuard(nil, "", 0)
	assert.Equal(t, "shipdocs:export:", guard.keyPrefix)
	assert.Equal(t, DefaultGuardTTL, guard.ttl)

	// a key this instance never acquired is not touched in Redis
	assert.NoError(t, guard.Release(context.Background(), "doc-1"))
}

func held(t *testing.T, guard Guard, key string) bool {
	t.Helper()
	ok, err := guard.Held(context.Background(), key)
	require.NoError(t, err)
	return ok
}
