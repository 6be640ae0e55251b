package service

import (
	"context"
	"sync"

	"invoiceflow/internal/invoicedoc"
)

// KeyLocks serializes work per duplicate key. Different keys never block
// each other.
type KeyLocks struct {
	mu      sync.Mutex
	holders map[invoicedoc.Key]chan struct{}
}

// NewKeyLocks creates an empty registry.
func NewKeyLocks() *KeyLocks {
	return &KeyLocks{holders: make(map[invoicedoc.Key]chan struct{})}
}

// Acquire blocks until key is free or ctx is done. The returned release
// func may be called more than once.
func (l *KeyLocks) Acquire(ctx context.Context, key invoicedoc.Key) (func(), error) {
	for {
		l.mu.Lock()
		held, busy := l.holders[key]
		if !busy {
			done := make(chan struct{})
			l.holders[key] = done
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.holders, key)
					l.mu.Unlock()
					close(done)
				})
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-held:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Held reports how many keys are currently held.
func (l *KeyLocks) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.holders)
}
