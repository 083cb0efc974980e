// Package runlock guards against two archival runs for the same client
// executing side by side. Parallelism across clients stays process-level;
// the lock only serializes runs that would stomp the same intermediate and
// storage paths.
package runlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// ErrHeld is returned when another run already holds the client's lock.
var ErrHeld = errors.New("runlock: already held")

const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// Locker acquires per-client run locks in Redis.
type Locker struct {
	client *backend.Client
	prefix string
}

// New creates a locker. prefix namespaces the lock keys.
func New(client *backend.Client, prefix string) *Locker {
	return &Locker{client: client, prefix: prefix}
}

// Acquire takes the lock for a client, or fails fast with ErrHeld. The
// returned release func checks the holder token before deleting so an
// expired lock re-acquired by another run is never released by us.
func (l *Locker) Acquire(ctx context.Context, client string, ttl time.Duration) (func(context.Context) error, error) {
	key := l.prefix + "lock:" + client
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("runlock: acquire %s: %w", client, err)
	}
	if !ok {
		return nil, ErrHeld
	}

	return func(ctx context.Context) error {
		return l.client.Eval(ctx, unlockScript, []string{key}, token).Err()
	}, nil
}
