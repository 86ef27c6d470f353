// Package dstate implements the double-buffered state manager for
// large state objects that must be mutated by a control thread and
// observed by the audio thread without ever blocking the audio thread:
// two instances with an atomic "current reader" index, the writer
// edits the off-current instance and swaps with release semantics,
// replaying a mutation log against the stale copy before publishing it.
package dstate

import (
	"sync"
	"sync/atomic"
)

// Mutation is a function that edits a *T in place.
type Mutation[T any] func(*T)

// Manager owns two instances of T and publishes one of them atomically
// for lock-free reads.
type Manager[T any] struct {
	mu      sync.Mutex // serializes writers only; readers never take it.
	bufs    [2]T
	synced  [2]int
	log     []Mutation[T]
	current atomic.Int32
}

// NewManager constructs a Manager with both instances initialized to
// the zero value of T. Use Mutate to set up initial state before
// handing the Manager to the audio thread.
func NewManager[T any]() *Manager[T] {
	return &Manager[T]{}
}

// Reader returns a pointer to the currently published instance. Safe to
// call from the audio thread; never blocks, never allocates. Go's
// sync/atomic load already provides the acquire ordering a published
// snapshot needs.
func (m *Manager[T]) Reader() *T {
	idx := m.current.Load()
	return &m.bufs[idx]
}

// Mutate queues fn, applies it to the off-current instance (replaying
// any mutations that instance missed while it was off-current), and
// publishes the result by swapping the current index with release
// ordering. Only ever called from control threads; may block briefly on
// other writers via an internal mutex, never on the audio thread.
func (m *Manager[T]) Mutate(fn Mutation[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log = append(m.log, fn)
	cur := m.current.Load()
	off := 1 - cur
	for i := m.synced[off]; i < len(m.log); i++ {
		m.log[i](&m.bufs[off])
	}
	m.synced[off] = len(m.log)
	m.current.Store(off)

	// Both instances are now synced up to the smaller of the two synced
	// marks (off just caught up to len(m.log); cur was left where the
	// previous call set it), so that prefix can never be replayed again.
	// Drop it so a long-running writer doesn't grow m.log without bound.
	if keep := m.synced[cur]; keep > 0 {
		m.log = m.log[keep:]
		m.synced[0] -= keep
		m.synced[1] -= keep
	}
}
