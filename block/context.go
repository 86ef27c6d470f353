package block

import "github.com/noisecore/engine/buffer"

// PerfStats carries lightweight per-block performance counters, the
// same ones noisicaa/audioproc/vm/engine_perftest.py measured on the
// original engine: how many opcodes ran and how long the block took.
// The VM counts OpcodesExecuted; nothing in the engine writes
// BlockNanos, which stays zero unless the host sets it.
type PerfStats struct {
	OpcodesExecuted int
	BlockNanos      int64
}

// Reset zeroes the counters for reuse on the next block.
func (p *PerfStats) Reset() {
	p.OpcodesExecuted = 0
	p.BlockNanos = 0
}

// Context is the per-period scratch state the VM executes a Program
// against. It is created once and reused for every block; fields are
// cleared on entry rather than reallocated, so no allocation happens on
// the audio thread's hot path.
type Context struct {
	BlockSize int
	SamplePos int64
	TimeMap   []SampleTime

	// NamedBuffers holds host-provided input buffers, keyed by name, for
	// FETCH_BUFFER to copy from.
	NamedBuffers map[string]*buffer.Buffer
	// Controls holds host-provided named control values for
	// FETCH_CONTROL_VALUE to resolve.
	Controls map[string]float64

	// InMessages are inbound atom events for this block, consumed by
	// FETCH_MESSAGES.
	InMessages buffer.Atoms
	// OutMessages accumulates atoms emitted by processors and opcodes
	// during this block; drained by the control side after end_block.
	OutMessages buffer.Atoms

	Perf PerfStats
}

// NewContext allocates a reusable Context for the given block_size. The
// TimeMap slice is sized by the first BeginBlock and reused after that.
func NewContext(blockSize int) *Context {
	return &Context{
		BlockSize:    blockSize,
		NamedBuffers: make(map[string]*buffer.Buffer),
		Controls:     make(map[string]float64),
	}
}

// BeginBlock clears the per-block transient fields ahead of a new
// period: the time map is resized (not reallocated beyond capacity),
// in/out message queues are emptied, and perf counters reset. NamedBuffers
// and Controls are host-provided state and are left untouched here; the
// host refreshes them itself (realm.Realm does so right after BeginBlock).
func (c *Context) BeginBlock(samplePos int64) {
	c.SamplePos = samplePos
	if cap(c.TimeMap) >= c.BlockSize {
		c.TimeMap = c.TimeMap[:c.BlockSize]
	} else {
		c.TimeMap = make([]SampleTime, c.BlockSize)
	}
	c.InMessages = c.InMessages[:0]
	c.OutMessages = c.OutMessages[:0]
	c.Perf.Reset()
}

// Emit appends an event to the outbound message queue.
func (c *Context) Emit(e buffer.Event) {
	c.OutMessages = append(c.OutMessages, e)
}
