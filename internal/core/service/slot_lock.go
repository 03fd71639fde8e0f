package service

import (
	"context"
	"sync"
)

// LocalSlotLock is an in-process ports.SlotLock. It only serializes requests
// handled by the same replica; use the Redis lock when running several.
type LocalSlotLock struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalSlotLock() *LocalSlotLock {
	return &LocalSlotLock{slots: make(map[string]chan struct{})}
}

func (l *LocalSlotLock) Acquire(ctx context.Context, key string) (func(), error) {
	ch := l.channel(key)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *LocalSlotLock) channel(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}
