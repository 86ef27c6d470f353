package vm

import (
	"math"

	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/buffer"
)

// initFunc runs once at Compile time, e.g. CONNECT_PORT binding a buffer
// to a processor port before the audio thread ever sees the Program.
type initFunc func(p *Program, idx int, ins Instruction) error

// runFunc runs once per block. An opcode may declare init, run, or both.
type runFunc func(ps *ProgramState, ctxt *block.Context, idx int, ins Instruction) error

type opcodeEntry struct {
	init initFunc
	run  runFunc
}

var opcodeTable = map[OpCode]opcodeEntry{
	NOOP: {},
	END: {
		run: func(ps *ProgramState, _ *block.Context, _ int, _ Instruction) error {
			ps.End = true
			return nil
		},
	},
	COPY: {
		run: func(ps *ProgramState, _ *block.Context, _ int, ins Instruction) error {
			src := ps.Program.Pool.At(ins.Args[0].Buf)
			dst := ps.Program.Pool.At(ins.Args[1].Buf)
			return buffer.Copy(src, dst)
		},
	},
	CLEAR: {
		run: func(ps *ProgramState, _ *block.Context, _ int, ins Instruction) error {
			buffer.Clear(ps.Program.Pool.At(ins.Args[0].Buf))
			return nil
		},
	},
	MIX: {
		run: func(ps *ProgramState, _ *block.Context, _ int, ins Instruction) error {
			src := ps.Program.Pool.At(ins.Args[0].Buf)
			dst := ps.Program.Pool.At(ins.Args[1].Buf)
			return buffer.Mix(src, dst)
		},
	},
	MUL: {
		run: func(ps *ProgramState, _ *block.Context, _ int, ins Instruction) error {
			buffer.Mul(ps.Program.Pool.At(ins.Args[0].Buf), ins.Args[1].Float)
			return nil
		},
	},
	SET_FLOAT: {
		run: func(ps *ProgramState, _ *block.Context, _ int, ins Instruction) error {
			return buffer.SetFloat(ps.Program.Pool.At(ins.Args[0].Buf), ins.Args[1].Float)
		},
	},
	OUTPUT: {
		run: func(ps *ProgramState, ctxt *block.Context, _ int, ins Instruction) error {
			buf := ps.Program.Pool.At(ins.Args[0].Buf)
			return ps.Backend.Output(ctxt, ins.Args[1].Str, buf.Floats)
		},
	},
	FETCH_BUFFER: {
		run: func(ps *ProgramState, ctxt *block.Context, _ int, ins Instruction) error {
			dst := ps.Program.Pool.At(ins.Args[1].Buf)
			src, ok := ctxt.NamedBuffers[ins.Args[0].Str]
			if !ok {
				buffer.Clear(dst)
				return nil
			}
			return buffer.Copy(src, dst)
		},
	},
	FETCH_MESSAGES: {
		run: func(ps *ProgramState, ctxt *block.Context, _ int, ins Instruction) error {
			dst := ps.Program.Pool.At(ins.Args[1].Buf)
			want := parseLabelset(ins.Args[0].Str)
			dst.Events = buffer.FilterAtoms(ctxt.InMessages, want)
			return nil
		},
	},
	FETCH_CONTROL_VALUE: {
		run: func(ps *ProgramState, ctxt *block.Context, _ int, ins Instruction) error {
			dst := ps.Program.Pool.At(ins.Args[1].Buf)
			v := ctxt.Controls[ins.Args[0].Str] // zero value if absent.
			return buffer.SetFloat(dst, v)
		},
	},
	NOISE: {
		run: func(ps *ProgramState, _ *block.Context, _ int, ins Instruction) error {
			dst := ps.Program.Pool.At(ins.Args[0].Buf)
			for i := range dst.Floats {
				dst.Floats[i] = ps.Program.rng.Float64()*2 - 1
			}
			return nil
		},
	},
	SINE: {
		run: func(ps *ProgramState, _ *block.Context, idx int, ins Instruction) error {
			dst := ps.Program.Pool.At(ins.Args[0].Buf)
			// ins.Args[1].Float is the phase increment per sample, in
			// radians; the core has no implicit sample-rate collaborator,
			// so frequency is expressed directly in radians/sample rather
			// than Hz.
			step := ins.Args[1].Float
			phase := ps.Program.phases[idx]
			for i := range dst.Floats {
				dst.Floats[i] = math.Sin(phase)
				phase += step
			}
			ps.Program.phases[idx] = math.Mod(phase, 2*math.Pi)
			return nil
		},
	},
	MIDI_MONKEY: {
		run: func(ps *ProgramState, ctxt *block.Context, _ int, ins Instruction) error {
			dst := ps.Program.Pool.At(ins.Args[0].Buf)
			buffer.Clear(dst)
			prob := ins.Args[1].Float
			if ps.Program.rng.Float64() >= prob {
				return nil
			}
			frame := 0
			if ctxt.BlockSize > 0 {
				frame = ps.Program.rng.Intn(ctxt.BlockSize)
			}
			ctxt.Emit(buffer.Event{
				FrameTime: frame,
				Labelset:  buffer.Labelset{{Key: "type", Value: "note_on"}},
			})
			return nil
		},
	},
	CONNECT_PORT: {
		init: func(p *Program, _ int, ins Instruction) error {
			proc := p.Spec.Processors[ins.Args[0].Proc]
			return proc.ConnectPort(ins.Args[1].Int, p.Pool.At(ins.Args[2].Buf))
		},
	},
	CALL: {
		run: func(ps *ProgramState, ctxt *block.Context, _ int, ins Instruction) error {
			return ps.Program.Spec.Processors[ins.Args[0].Proc].Run(ctxt)
		},
	},
	LOG_RMS: {
		run: func(ps *ProgramState, _ *block.Context, _ int, ins Instruction) error {
			buf := ps.Program.Pool.At(ins.Args[0].Buf)
			ps.Program.log.Debug("vm: rms", buffer.RMS(buf))
			return nil
		},
	},
	LOG_ATOM: {
		run: func(ps *ProgramState, _ *block.Context, _ int, ins Instruction) error {
			buf := ps.Program.Pool.At(ins.Args[0].Buf)
			ps.Program.log.Debug("vm: atoms", len(buf.Events))
			return nil
		},
	},
}
