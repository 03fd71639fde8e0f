package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultLockTTL   = 10 * time.Second
	lockRetryBackoff = 25 * time.Millisecond
	lockKeyPrefix    = "lock:"
)

// releaseScript deletes the key only while it still holds our token, so a
// lease that expired and was taken by another replica is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// SlotLock is a lease-based mutex shared by every replica.
// Key format: lock:<key>
type SlotLock struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewSlotLock creates a SlotLock. If ttl <= 0, defaultLockTTL is used.
func NewSlotLock(client *redis.Client, ttl time.Duration, log zerolog.Logger) *SlotLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &SlotLock{client: client, ttl: ttl, log: log}
}

// Acquire polls SET NX until the lease is obtained or ctx is done.
func (l *SlotLock) Acquire(ctx context.Context, key string) (func(), error) {
	k := lockKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryBackoff)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return func() { l.release(k, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock %s: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *SlotLock) release(key, token string) {
	// The request context may already be cancelled; releasing must still happen.
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		l.log.Warn().Err(err).Str("key", key).Msg("failed to release lock, waiting for expiry")
	}
}
