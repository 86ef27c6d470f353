// Package processor defines the Processor contract used by VM opcodes:
// a node in the audio graph that binds ports to buffers at setup and
// renders one block per run call. Concrete DSP kinds (LADSPA, LV2,
// CSound, sample players, mixers) are external collaborators; this
// package specifies only the interface and a couple of reference
// implementations exercised by the core's own tests.
package processor

import (
	"fmt"

	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/buffer"
)

// PortDirection is the direction of a declared port.
type PortDirection int

const (
	PortInput PortDirection = iota
	PortOutput
)

// Port describes one bindable port on a Processor.
type Port struct {
	Name      string
	Direction PortDirection
	Type      buffer.Type
}

// Spec describes the ports a Processor exposes, validated by setup.
type Spec struct {
	Name  string
	Ports []Port
}

// PortIndex returns the index of the named port, or -1.
func (s Spec) PortIndex(name string) int {
	for i, p := range s.Ports {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Processor is the lifecycle contract every VM-driven graph node
// implements. set_parameters must queue changes rather than applying
// them immediately, so they only take effect at the next run; run must
// not block, allocate on the hot path, or run unbounded.
type Processor interface {
	// Setup validates port declarations against spec and prepares
	// internal state. Called once on a control thread before the
	// Processor is handed to the audio thread.
	Setup(spec Spec) error
	// Cleanup releases any native resources. Called on a control thread
	// after the audio thread has been drained. Errors are collected by
	// the caller rather than silently dropped.
	Cleanup() error
	// ConnectPort binds a buffer to one of the processor's ports. Called
	// once per program load per port, before the first run.
	ConnectPort(portIdx int, buf *buffer.Buffer) error
	// Run renders one block, reading bound input ports and writing bound
	// output ports. It may append to ctxt.OutMessages.
	Run(ctxt *block.Context) error
	// SetParameters is safe to call from the control thread. Changes
	// must be queued and applied at the next Run, never mid-run.
	SetParameters(params map[string]float64)
}

// ErrNotSetup is returned by ConnectPort/Run when called before Setup.
var ErrNotSetup = fmt.Errorf("processor: not set up")

// Guard wraps a Processor's native-resource release so it fires on
// every exit path out of a failed Setup, adapted from
// noisicore/processor.h's destructor-based release discipline (the
// idiomatic Go form is an explicit Close rather than an implicit
// destructor).
type Guard struct {
	release func()
	fired   bool
}

// NewGuard returns a Guard that calls release at most once.
func NewGuard(release func()) *Guard {
	return &Guard{release: release}
}

// Close runs the release function if it hasn't already run. Safe to
// call multiple times and via defer immediately after a failed step.
func (g *Guard) Close() error {
	if g == nil || g.fired || g.release == nil {
		return nil
	}
	g.fired = true
	g.release()
	return nil
}

// Disarm prevents Close from running the release function, used once
// setup has fully succeeded and ownership has transferred elsewhere.
func (g *Guard) Disarm() {
	if g != nil {
		g.fired = true
	}
}
