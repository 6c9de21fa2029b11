package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/models"
)

func TestKeyLock_AcquireRelease(t *testing.T) {
	kl := newKeyLock()
	ctx := context.Background()

	release, err := kl.acquire(ctx, "user1", time.Second)
	require.NoError(t, err)
	release()

	// Reacquire after release succeeds immediately
	release, err = kl.acquire(ctx, "user1", time.Second)
	require.NoError(t, err)
	release()
}

func TestKeyLock_ContendedTimesOut(t *testing.T) {
	kl := newKeyLock()
	ctx := context.Background()

	release, err := kl.acquire(ctx, "user1", time.Second)
	require.NoError(t, err)
	defer release()

	_, err = kl.acquire(ctx, "user1", 50*time.Millisecond)
	assert.ErrorIs(t, err, models.ErrBusy)
}

func TestKeyLock_DifferentKeysIndependent(t *testing.T) {
	kl := newKeyLock()
	ctx := context.Background()

	r1, err := kl.acquire(ctx, "user1", time.Second)
	require.NoError(t, err)
	defer r1()

	r2, err := kl.acquire(ctx, "user2", 50*time.Millisecond)
	require.NoError(t, err)
	defer r2()
}

func TestKeyLock_EntriesRemovedWhenUnused(t *testing.T) {
	kl := newKeyLock()
	ctx := context.Background()

	release, err := kl.acquire(ctx, "user1", time.Second)
	require.NoError(t, err)
	release()

	kl.mu.Lock()
	assert.Empty(t, kl.locks)
	kl.mu.Unlock()

	// A failed acquire must not leak an entry either
	r1, err := kl.acquire(ctx, "user2", time.Second)
	require.NoError(t, err)
	_, err = kl.acquire(ctx, "user2", 10*time.Millisecond)
	assert.ErrorIs(t, err, models.ErrBusy)
	r1()

	kl.mu.Lock()
	assert.Empty(t, kl.locks)
	kl.mu.Unlock()
}

func TestKeyLock_ContextCancel(t *testing.T) {
	kl := newKeyLock()

	release, err := kl.acquire(context.Background(), "user1", time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = kl.acquire(ctx, "user1", 10*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
