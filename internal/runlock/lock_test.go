package runlock_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/coldstore/internal/runlock"
)

func newLocker(t *testing.T) (*runlock.Locker, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return runlock.New(client, "coldstore:"), srv
}

func TestAcquire_Contention(t *testing.T) {
	locker, _ := newLocker(t)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "acme", time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "acme", time.Minute)
	assert.ErrorIs(t, err, runlock.ErrHeld)

	// A different client is unaffected.
	otherRelease, err := locker.Acquire(ctx, "globex", time.Minute)
	require.NoError(t, err)
	require.NoError(t, otherRelease(ctx))

	require.NoError(t, release(ctx))

	// Released lock can be re-acquired.
	release, err = locker.Acquire(ctx, "acme", time.Minute)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestRelease_IgnoresStolenLock(t *testing.T) {
	locker, srv := newLocker(t)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "acme", time.Minute)
	require.NoError(t, err)

	// Simulate expiry plus re-acquisition by another run.
	srv.FastForward(2 * time.Minute)
	_, err = locker.Acquire(ctx, "acme", time.Minute)
	require.NoError(t, err)

	// Our stale release must not delete the new holder's lock.
	require.NoError(t, release(ctx))
	_, err = locker.Acquire(ctx, "acme", time.Minute)
	assert.ErrorIs(t, err, runlock.ErrHeld)
}
