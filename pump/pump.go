// Package pump implements the audio->control snapshot channel: a
// single-slot, overwrite-on-write channel the audio thread pushes into
// once per block, coalescing older snapshots silently, with a dedicated
// consumer goroutine on the control side dispatching a user callback.
//
// Grounded on the teacher's single-slot mutation channels
// (mutable.Pusher's buffered-1 Destination, internal/async's executor
// start/flush discipline) and on noisicaa/audioproc/engine/player.cpp's
// PlayerStatePump, generalized from a PlayerState-specific pump to a
// generic one so any per-block snapshot type can use it. The underlying
// storage is a lock-free triple buffer, the same three-owned-slots
// hand-off dstate.Manager uses with two slots plus a mutex; Pump can't
// take a lock on the write side (the audio thread must never block), so
// it uses a third slot instead and hands ownership off with a single
// atomic swap per side.
package pump

import "sync/atomic"

// Callback is invoked by the consumer goroutine for every coalesced
// snapshot it observes.
type Callback[T any] func(T)

const (
	slotMask = 0b011
	dirtyBit = 0b100
)

// Pump is a single-producer, single-consumer coalescing channel backed
// by three preallocated T slots. Push never allocates once the Pump has
// been constructed: at any instant each slot is owned by exactly one of
// {the writer, the shared/pending slot, the reader}, and ownership
// changes hands via a single atomic.Uint32.Swap, never a copy onto the
// heap.
type Pump[T any] struct {
	bufs  [3]T
	state atomic.Uint32 // low 2 bits: shared-slot index; bit 2: dirty

	writeIdx int // touched only by the Push caller
	readIdx  int // touched only by the Run/TryPop caller

	notify  chan struct{}
	done    chan struct{}
	stopped chan struct{}
	started atomic.Bool // set once Run has begun; Stop waits only then.
}

// New constructs a Pump. Call Run to start the consumer goroutine.
func New[T any]() *Pump[T] {
	p := &Pump[T]{
		writeIdx: 0,
		readIdx:  1,
		notify:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	p.state.Store(2) // shared slot starts at index 2, not dirty
	return p
}

// Push publishes value as the latest snapshot, discarding whatever was
// there before. Called by the audio thread once per block; never
// blocks and never allocates: value is written directly into the
// writer's preallocated slot, and ownership of that slot is handed off
// by swapping a packed index+dirty word, not by boxing a new T.
func (p *Pump[T]) Push(value T) {
	p.bufs[p.writeIdx] = value
	old := p.state.Swap(uint32(p.writeIdx) | dirtyBit)
	p.writeIdx = int(old & slotMask)

	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// tryConsume claims the shared slot if it holds an unread value,
// handing the reader's previous slot back in its place.
func (p *Pump[T]) tryConsume() (T, bool) {
	if p.state.Load()&dirtyBit == 0 {
		var zero T
		return zero, false
	}
	old := p.state.Swap(uint32(p.readIdx))
	p.readIdx = int(old & slotMask)
	return p.bufs[p.readIdx], true
}

// Run starts the consumer loop. It blocks until Stop is called or the
// Pump is otherwise shut down, so callers run it in its own goroutine.
// cb is invoked for every coalesced snapshot observed; if two pushes
// land between wakeups, only the latest is delivered.
func (p *Pump[T]) Run(cb Callback[T]) {
	p.started.Store(true)
	defer close(p.stopped)
	for {
		select {
		case <-p.notify:
			if v, ok := p.tryConsume(); ok {
				cb(v)
			}
		case <-p.done:
			// drain one last time before exiting.
			if v, ok := p.tryConsume(); ok {
				cb(v)
			}
			return
		}
	}
}

// TryPop returns the latest pushed snapshot and clears it, without
// starting the Run consumer loop. Useful for tests and for hosts that
// poll once per block instead of running a dedicated goroutine.
func (p *Pump[T]) TryPop() (T, bool) {
	return p.tryConsume()
}

// Stop signals the consumer goroutine to shut down after delivering any
// pending snapshot, and blocks until it has exited. If Run has not been
// started, Stop only marks the Pump stopped and returns at once.
func (p *Pump[T]) Stop() {
	select {
	case <-p.done:
		// already stopped
	default:
		close(p.done)
	}
	if p.started.Load() {
		<-p.stopped
	}
}
