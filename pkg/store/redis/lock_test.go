package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLockClient(t *testing.T) *goredis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestDistributedLock_AcquireAndRelease(t *testing.T) {
	client := testLockClient(t)
	ctx := context.Background()

	lock := NewDistributedLock(client, "test:lock")

	acquired, err := lock.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.True(t, lock.IsHeld())

	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, lock.IsHeld())
}

func TestDistributedLock_SecondInstanceBlocked(t *testing.T) {
	client := testLockClient(t)
	ctx := context.Background()

	first := NewDistributedLock(client, "test:lock")
	second := NewDistributedLock(client, "test:lock")

	acquired, err := first.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, acquired)
	assert.False(t, second.IsHeld())

	// Released lock is available again
	require.NoError(t, first.Unlock(ctx))

	acquired, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, acquired)
	require.NoError(t, second.Unlock(ctx))
}

func TestDistributedLock_DifferentKeysIndependent(t *testing.T) {
	client := testLockClient(t)
	ctx := context.Background()

	summaryLock := NewDistributedLock(client, "jobs:summary-lock")
	pruneLock := NewDistributedLock(client, "jobs:prune-lock")

	acquired, err := summaryLock.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = pruneLock.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, acquired)

	require.NoError(t, summaryLock.Unlock(ctx))
	require.NoError(t, pruneLock.Unlock(ctx))
}

func TestDistributedLock_NilClientSingleInstanceMode(t *testing.T) {
	ctx := context.Background()

	lock := NewDistributedLock(nil, "test:lock")

	acquired, err := lock.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.True(t, lock.IsHeld())

	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, lock.IsHeld())
}

func TestDistributedLock_ReacquireAfterUnlock(t *testing.T) {
	client := testLockClient(t)
	ctx := context.Background()

	lock := NewDistributedLock(client, "test:lock")

	for i := 0; i < 3; i++ {
		acquired, err := lock.TryLock(ctx)
		require.NoError(t, err)
		require.True(t, acquired)
		require.NoError(t, lock.Unlock(ctx))
	}
}

func TestDistributedLock_UnlockWithoutHoldIsNoop(t *testing.T) {
	client := testLockClient(t)

	lock := NewDistributedLock(client, "test:lock")
	assert.NoError(t, lock.Unlock(context.Background()))
}
