package backend

import (
	"sync/atomic"
	"time"

	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/enginelog"
)

// Null is a no-I/O backend used for tests and for pacing-free or
// real-time-paced headless runs, grounded on noisicore/backend_null.h.
type Null struct {
	settings Settings
	log      enginelog.Logger

	pacing     bool
	sampleRate int
	lastBlock  time.Time

	stopped atomic.Bool
	outputs []NullOutput
}

// NullOutput records one Output call, for tests to assert against.
type NullOutput struct {
	Channel string
	Samples []float64
}

// NullOption configures a Null backend.
type NullOption func(*Null)

// WithPacing makes the Null backend sleep between blocks to approximate
// real time at the given sample rate, scaled by Settings.TimeScale.
// Without pacing (the default) blocks run back to back as fast as
// possible, which is what makes Null useful for tests.
func WithPacing(sampleRate int) NullOption {
	return func(n *Null) {
		n.pacing = true
		n.sampleRate = sampleRate
	}
}

// NewNull constructs a Null backend.
func NewNull(settings Settings, log enginelog.Logger, opts ...NullOption) *Null {
	if log == nil {
		log = enginelog.Silent{}
	}
	n := &Null{settings: settings, log: log}
	for _, o := range opts {
		o(n)
	}
	return n
}

func (n *Null) Setup(host Host) error {
	n.log.Debug("backend/null: setup")
	return nil
}

func (n *Null) Cleanup() error { return nil }

func (n *Null) BeginBlock(ctxt *block.Context) error {
	if n.pacing && n.sampleRate > 0 {
		scale := n.settings.TimeScale
		if scale <= 0 {
			scale = 1.0
		}
		wanted := time.Duration(float64(ctxt.BlockSize) / float64(n.sampleRate) / scale * float64(time.Second))
		if elapsed := time.Since(n.lastBlock); elapsed < wanted {
			time.Sleep(wanted - elapsed)
		}
		n.lastBlock = time.Now()
	}
	n.outputs = n.outputs[:0]
	return nil
}

func (n *Null) EndBlock(ctxt *block.Context) error { return nil }

func (n *Null) Output(ctxt *block.Context, channel string, samples []float64) error {
	cp := make([]float64, len(samples))
	copy(cp, samples)
	n.outputs = append(n.outputs, NullOutput{Channel: channel, Samples: cp})
	return nil
}

func (n *Null) SendMessage([]byte) {}

func (n *Null) Stop() { n.stopped.Store(true) }

func (n *Null) Stopped() bool { return n.stopped.Load() }

func (n *Null) Release() {}

// Outputs returns the Output calls recorded during the last block,
// exposed for test assertions against deterministic seeded output.
func (n *Null) Outputs() []NullOutput { return n.outputs }
