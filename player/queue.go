package player

import "sync/atomic"

// mutationQueue is a bounded multi-producer/single-consumer queue of
// PlayerStateMutation values. Control threads call Push concurrently;
// the audio thread is the sole caller of DrainInto, once per block
// head, and never blocks on a mutex to do it.
//
// Grounded on the ring-buffer mechanics in vinq1911-nonchalant's
// RingBuffer (free-running, masked positions), generalized from a
// single-producer ring to multi-producer with a Disruptor-style
// per-slot sequence number: a producer claims a slot with a CAS on
// writePos, writes its value, then publishes the slot by storing its
// claimed sequence into that slot's seq field. The consumer only
// advances past a slot once it observes that publish, so it never
// reads a half-written value and never needs a lock of its own. On
// overflow (the consumer hasn't kept up) a producer drops its own
// value rather than forcing the consumer's read position forward,
// since only the consumer may safely touch that position.
type mutationQueue struct {
	slots []queueSlot
	mask  uint32

	writePos atomic.Uint32 // next slot index to claim; producers CAS this.
	readPos  uint32        // touched only by the single consumer.
	readPub  atomic.Uint32 // consumer's readPos, published for producers' overflow check.

	dropped atomic.Uint64
}

type queueSlot struct {
	seq atomic.Uint32 // 0 until the first write; thereafter claimIndex+1.
	val PlayerStateMutation
}

func newMutationQueue(capacity int) *mutationQueue {
	size := uint32(1)
	for size < uint32(capacity) {
		size <<= 1
	}
	return &mutationQueue{
		slots: make([]queueSlot, size),
		mask:  size - 1,
	}
}

// Push enqueues a mutation. Safe for concurrent callers. If the
// consumer hasn't drained fast enough to make room, the new mutation
// is dropped and Dropped's counter is incremented.
func (q *mutationQueue) Push(m PlayerStateMutation) {
	for {
		cur := q.writePos.Load()
		if cur-q.readPub.Load() >= uint32(len(q.slots)) {
			q.dropped.Add(1)
			return
		}
		if q.writePos.CompareAndSwap(cur, cur+1) {
			slot := &q.slots[cur&q.mask]
			slot.val = m
			slot.seq.Store(cur + 1)
			return
		}
	}
}

// DrainInto appends every pending mutation, in arrival order, to dst
// and returns it. Called once per block head by the audio thread only;
// never locks.
func (q *mutationQueue) DrainInto(dst []PlayerStateMutation) []PlayerStateMutation {
	for {
		slot := &q.slots[q.readPos&q.mask]
		if slot.seq.Load() != q.readPos+1 {
			break
		}
		dst = append(dst, slot.val)
		q.readPos++
	}
	q.readPub.Store(q.readPos)
	return dst
}

// Dropped returns the number of mutations dropped due to overflow.
func (q *mutationQueue) Dropped() uint64 {
	return q.dropped.Load()
}
