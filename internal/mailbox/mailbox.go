package mailbox

import (
	"context"
	"sync"
)

// Mailbox is a single-slot buffer where the latest item always wins.
// It is NOT a queue. It holds at most one pending item.
// Put() overwrites any existing item. Take() blocks until an item is
// available or the context ends.
type Mailbox[T any] struct {
	mu     sync.Mutex
	item   *T
	notify chan struct{}
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{notify: make(chan struct{}, 1)}
}

// Put stores an item, replacing any existing one.
// It never blocks and reports whether a pending item was replaced.
func (m *Mailbox[T]) Put(v T) (replaced bool) {
	m.mu.Lock()
	replaced = m.item != nil
	m.item = &v
	m.mu.Unlock()

	// wake up the taker if waiting
	select {
	case m.notify <- struct{}{}:
	default:
	}
	return replaced
}

// Take blocks until an item is available, then returns it and clears the slot.
func (m *Mailbox[T]) Take(ctx context.Context) (T, error) {
	for {
		if v := m.TryTake(); v != nil {
			return *v, nil
		}
		select {
		case <-m.notify:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// TryTake returns the item if present, or nil if empty.
// It never blocks.
func (m *Mailbox[T]) TryTake() *T {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := m.item
	m.item = nil
	return v
}
