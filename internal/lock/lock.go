// Package lock provides a Redis-backed tick lock for the notification
// worker. When several worker replicas run, only the holder of the lock
// processes a tick, keeping the outbox on single-consumer semantics.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type TickLock struct {
	client redis.UniversalClient
	key    string
	holder string // only the holder may release the lock
}

func NewTickLock(client redis.UniversalClient, key string) *TickLock {
	return &TickLock{
		client: client,
		key:    key,
		holder: uuid.New().String(),
	}
}

// TryAcquire attempts to take the lock for ttl without blocking. It returns
// false when another holder has it.
func (l *TickLock) TryAcquire(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.holder, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire tick lock %s: %w", l.key, err)
	}
	return ok, nil
}

// Release drops the lock if this instance still holds it. A lock that
// expired and was re-taken by another holder is left alone.
func (l *TickLock) Release(ctx context.Context) error {
	script := "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.holder).Result()
	if err != nil {
		return fmt.Errorf("release tick lock %s: %w", l.key, err)
	}
	return nil
}
