package lock

import (
	"context"
	"sync"
)

// Locker serializes work on a key. Lock blocks until the key is held or ctx
// is done; the returned func releases it and is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// ======================================================
// In-process
// ======================================================

type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]*keySlot
}

type keySlot struct {
	sem  chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{keys: make(map[string]*keySlot)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.keys[key]
	if !ok {
		slot = &keySlot{sem: make(chan struct{}, 1)}
		l.keys[key] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, slot)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.sem
			l.release(key, slot)
		})
	}, nil
}

func (l *LocalLocker) release(key string, slot *keySlot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot.refs--
	if slot.refs == 0 {
		delete(l.keys, key)
	}
}

// held reports how many callers hold or wait on key.
func (l *LocalLocker) held(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if slot, ok := l.keys[key]; ok {
		return slot.refs
	}
	return 0
}
