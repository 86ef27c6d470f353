package vm

import (
	"github.com/noisecore/engine/backend"
	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/engineerr"
	"github.com/noisecore/engine/processor"
)

// ProgramState is the VM's per-run state: the end flag checked between
// opcodes, and back-references to the compiled Program, the Backend
// OUTPUT hands samples to, and the HostSystem URID map.
type ProgramState struct {
	End     bool
	Program *Program
	Backend backend.Backend
	Host    processor.HostSystem
}

// NewProgramState constructs a ProgramState for repeated use across
// blocks; callers reuse the same instance rather than allocating one per
// block.
func NewProgramState(p *Program, be backend.Backend, host processor.HostSystem) *ProgramState {
	return &ProgramState{Program: p, Backend: be, Host: host}
}

// ProcessBlock executes ps.Program's instructions in order against ctxt.
// End is reset false at block start; the interpreter stops on END or on
// the first run error; a run error aborts the block with whatever
// buffer writes already landed standing, no rollback.
func ProcessBlock(ctxt *block.Context, ps *ProgramState) error {
	ps.End = false
	for idx, ins := range ps.Program.Spec.Instructions {
		if ps.End {
			break
		}
		entry, ok := opcodeTable[ins.Op]
		if !ok || entry.run == nil {
			continue
		}
		if err := entry.run(ps, ctxt, idx, ins); err != nil {
			return engineerr.Runtime(err)
		}
		ctxt.Perf.OpcodesExecuted++
	}
	return nil
}
