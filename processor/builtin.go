package processor

import (
	"sync"

	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/buffer"
)

// Null is a Processor that does nothing to its bound buffers. It is
// used by tests and by the "null" processor factory entry, and mirrors
// noisicore's null processor used for pipeline smoke tests.
type Null struct {
	id    string
	ports []*buffer.Buffer
}

// NewNull returns a new Null processor instance.
func NewNull() *Null {
	return &Null{id: newInstanceID()}
}

func (p *Null) Setup(spec Spec) error {
	p.ports = make([]*buffer.Buffer, len(spec.Ports))
	return nil
}

func (p *Null) Cleanup() error { return nil }

func (p *Null) ConnectPort(portIdx int, buf *buffer.Buffer) error {
	if portIdx < 0 || portIdx >= len(p.ports) {
		return ErrNotSetup
	}
	p.ports[portIdx] = buf
	return nil
}

func (p *Null) Run(*block.Context) error { return nil }

func (p *Null) SetParameters(map[string]float64) {}

// Gain is a minimal built-in effect processor: it scales its one input
// port into its one output port by a control-thread-queued gain value.
// It stands in for the out-of-scope LADSPA/LV2 effect processors, just
// enough to exercise CALL/CONNECT_PORT in the core's own tests.
type Gain struct {
	id        string
	mu        sync.Mutex
	pending   *float64
	gain      float64
	inIdx     int
	outIdx    int
	in, out   *buffer.Buffer
}

// NewGain returns a new Gain processor with unity gain.
func NewGain() *Gain {
	return &Gain{id: newInstanceID(), gain: 1.0}
}

func (p *Gain) Setup(spec Spec) error {
	p.inIdx = spec.PortIndex("in")
	p.outIdx = spec.PortIndex("out")
	return nil
}

func (p *Gain) Cleanup() error { return nil }

func (p *Gain) ConnectPort(portIdx int, buf *buffer.Buffer) error {
	switch portIdx {
	case p.inIdx:
		p.in = buf
	case p.outIdx:
		p.out = buf
	}
	return nil
}

func (p *Gain) Run(*block.Context) error {
	p.mu.Lock()
	if p.pending != nil {
		p.gain = *p.pending
		p.pending = nil
	}
	gain := p.gain
	p.mu.Unlock()

	if p.in == nil || p.out == nil {
		return ErrNotSetup
	}
	if err := buffer.Copy(p.in, p.out); err != nil {
		return err
	}
	buffer.Mul(p.out, gain)
	return nil
}

// SetParameters queues a new "gain" value, applied at the start of the
// next Run rather than immediately.
func (p *Gain) SetParameters(params map[string]float64) {
	v, ok := params["gain"]
	if !ok {
		return
	}
	p.mu.Lock()
	p.pending = &v
	p.mu.Unlock()
}
