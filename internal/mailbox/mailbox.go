// Package mailbox provides a single-slot handoff where the latest value
// wins. It is not a queue: posting twice before the consumer wakes up
// coalesces into one pending value. The retention worker drains one of
// these so overlapping sweep triggers collapse into a single sweep.
package mailbox

import "sync"

// Mailbox holds at most one pending value.
type Mailbox[T any] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending *T
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	m := &Mailbox[T]{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Put stores v, replacing anything already pending. It never blocks.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	m.pending = &v
	m.mu.Unlock()
	m.cond.Signal()
}

// Take blocks until a value is pending, then returns it and empties the
// slot.
func (m *Mailbox[T]) Take() T {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.pending == nil {
		m.cond.Wait()
	}

	v := *m.pending
	m.pending = nil
	return v
}

// TryTake returns the pending value if there is one, or nil. It never
// blocks.
func (m *Mailbox[T]) TryTake() *T {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending == nil {
		return nil
	}

	v := m.pending
	m.pending = nil
	return v
}

// Pending reports whether a value is waiting to be taken.
func (m *Mailbox[T]) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}
