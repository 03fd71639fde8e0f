package ports

import "context"

// SlotLock serializes the check-then-write sequence of bookings.
// Acquire blocks until the lock is held or ctx is done; the returned function
// releases it.
type SlotLock interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
