package persistence

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPollingWatchStore_DetectsExternalChange(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryKeyedStore()
	store := NewPollingWatchStore(inner, 10*time.Millisecond, zap.NewNop())
	defer store.Close()

	require.NoError(t, store.Set(ctx, "k", []byte("v1")))

	var fired atomic.Int32
	cancel := store.Watch("k", func(string) { fired.Add(1) })
	defer cancel()

	// Write through the inner store, bypassing the wrapper entirely,
	// the way another process would.
	require.NoError(t, inner.Set(ctx, "k", []byte("v2")))

	assert.Eventually(t, func() bool {
		return fired.Load() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestPollingWatchStore_NoSpuriousNotification(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryKeyedStore()
	store := NewPollingWatchStore(inner, 10*time.Millisecond, zap.NewNop())
	defer store.Close()

	require.NoError(t, store.Set(ctx, "k", []byte("v1")))

	var fired atomic.Int32
	cancel := store.Watch("k", func(string) { fired.Add(1) })
	defer cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestPollingWatchStore_DetectsDeletion(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryKeyedStore()
	store := NewPollingWatchStore(inner, 10*time.Millisecond, zap.NewNop())
	defer store.Close()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))

	var fired atomic.Int32
	cancel := store.Watch("k", func(string) { fired.Add(1) })
	defer cancel()

	require.NoError(t, inner.Delete(ctx, "k"))

	assert.Eventually(t, func() bool {
		return fired.Load() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestPollingWatchStore_CancelStopsNotifications(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryKeyedStore()
	store := NewPollingWatchStore(inner, 10*time.Millisecond, zap.NewNop())
	defer store.Close()

	var fired atomic.Int32
	cancel := store.Watch("k", func(string) { fired.Add(1) })
	cancel()

	require.NoError(t, inner.Set(ctx, "k", []byte("v")))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}
