package buffer

// Pool is the Program's buffer table: an ordered list of allocated
// Buffers, one per BufferType slot declared in the ProgramSpec.
// Allocation happens once at Program setup and is never repeated
// mid-block.
//
// Grounded on internal/pool.Get's key->*pool.Pool cache in the teacher
// repo, adapted from a process-wide cache of reusable pools into the
// per-Program buffer table the VM indexes opcodes against.
type Pool struct {
	blockSize int
	buffers   []*Buffer
}

// NewPool allocates one Buffer per entry in specs, sized for blockSize.
func NewPool(blockSize int, specs []Type) *Pool {
	bufs := make([]*Buffer, len(specs))
	for i, t := range specs {
		bufs[i] = Allocate(t, blockSize)
	}
	return &Pool{blockSize: blockSize, buffers: bufs}
}

// BlockSize returns the block_size buffers in this pool are sized for.
func (p *Pool) BlockSize() int { return p.blockSize }

// Len returns the number of buffer slots.
func (p *Pool) Len() int { return len(p.buffers) }

// At returns the buffer at index idx, or nil if out of range.
func (p *Pool) At(idx int) *Buffer {
	if idx < 0 || idx >= len(p.buffers) {
		return nil
	}
	return p.buffers[idx]
}

// ClearAll zeroes every buffer in the pool. The VM does not call it; it
// only clears buffers an opcode explicitly targets.
func (p *Pool) ClearAll() {
	for _, b := range p.buffers {
		Clear(b)
	}
}
