// Package realm glues a Program, Player, and Backend into the per-block
// driver loop, the engine's top-level unit of work, grounded on the
// teacher's Pipe.Run driver (pipe.go) generalized from a source/sink
// sample pipeline to the VM/backend/player triad this core specifies.
package realm

import (
	"github.com/rs/xid"

	"github.com/noisecore/engine/backend"
	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/dstate"
	"github.com/noisecore/engine/engineerr"
	"github.com/noisecore/engine/enginelog"
	"github.com/noisecore/engine/player"
	"github.com/noisecore/engine/processor"
	"github.com/noisecore/engine/vm"
)

// Realm owns one Program, one Player, and one Backend, and drives them
// block by block. It implements backend.Host so a Backend can identify
// its owner for log correlation without importing this package.
type Realm struct {
	id string

	program *vm.Program
	state   *vm.ProgramState
	pl      *player.Player
	tm      player.TimeMapper
	be      backend.Backend
	host    processor.HostSystem

	ctxt      *block.Context
	samplePos int64
	log       enginelog.Logger

	// controls is the double-buffered control-value table FETCH_CONTROL_VALUE
	// reads: control threads call SetControl, the audio thread re-reads the
	// published snapshot into ctxt.Controls at the top of every block.
	controls *dstate.Manager[map[string]float64]
}

// New constructs a Realm. program must already be compiled (vm.Compile);
// be must not have been set up yet — New calls be.Setup(r) itself so the
// Backend's Host is always this Realm.
func New(program *vm.Program, pl *player.Player, tm player.TimeMapper, be backend.Backend, log enginelog.Logger) (*Realm, error) {
	if log == nil {
		log = enginelog.Silent{}
	}
	host := processor.NewHostSystem()
	r := &Realm{
		id:       xid.New().String(),
		program:  program,
		state:    vm.NewProgramState(program, be, host),
		pl:       pl,
		tm:       tm,
		be:       be,
		host:     host,
		ctxt:     block.NewContext(program.Pool.BlockSize()),
		log:      log,
		controls: dstate.NewManager[map[string]float64](),
	}
	if err := be.Setup(r); err != nil {
		return nil, engineerr.Resource("realm: backend setup failed: %v", err)
	}
	return r, nil
}

// ComponentID satisfies backend.Host.
func (r *Realm) ComponentID() string { return r.id }

// Player returns the Realm's Player, for control threads to Push
// mutations into.
func (r *Realm) Player() *player.Player { return r.pl }

// Context returns the Realm's reused BlockContext, exposed for tests and
// diagnostics; the driver loop owns its lifecycle.
func (r *Realm) Context() *block.Context { return r.ctxt }

// SetControl publishes a new named control value, readable by
// FETCH_CONTROL_VALUE from the next block onward. Safe to call from any
// control thread; never blocks the audio thread.
func (r *Realm) SetControl(name string, value float64) {
	r.controls.Mutate(func(m *map[string]float64) {
		if *m == nil {
			*m = make(map[string]float64)
		}
		(*m)[name] = value
	})
}

// RunBlock drives exactly one period end to end:
// backend.BeginBlock → player.FillTimeMap → vm.ProcessBlock →
// backend.EndBlock.
func (r *Realm) RunBlock() error {
	r.ctxt.BeginBlock(r.samplePos)
	r.ctxt.Controls = *r.controls.Reader()

	if err := r.be.BeginBlock(r.ctxt); err != nil {
		return engineerr.Runtime(err)
	}

	r.pl.FillTimeMap(r.tm, r.ctxt)

	if err := vm.ProcessBlock(r.ctxt, r.state); err != nil {
		r.log.Error("realm: block aborted", err)
	}

	if err := r.be.EndBlock(r.ctxt); err != nil {
		return engineerr.Runtime(err)
	}

	r.samplePos += int64(r.ctxt.BlockSize)
	return nil
}

// Run drives up to maxBlocks periods, exiting early and gracefully once
// the Backend reports Stopped.
func (r *Realm) Run(maxBlocks int) error {
	for i := 0; i < maxBlocks; i++ {
		if r.be.Stopped() {
			break
		}
		if err := r.RunBlock(); err != nil {
			return err
		}
	}
	return nil
}

// Close cleans up the Backend and every processor the Program owns,
// collecting every independent cleanup failure instead of stopping at
// the first one, since the audio thread is already drained and there is
// nothing left to protect by aborting early.
func (r *Realm) Close() error {
	var merr engineerr.Multi
	merr = merr.Add(r.be.Cleanup())
	for _, p := range r.program.Spec.Processors {
		merr = merr.Add(p.Cleanup())
	}
	r.be.Release()
	return merr.Err()
}
