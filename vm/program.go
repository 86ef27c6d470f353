// Package vm implements the opcode interpreter: an immutable ProgramSpec
// compiled into a Program (allocated buffers plus per-opcode init state),
// executed block by block against a ProgramState.
package vm

import (
	"strings"

	"github.com/noisecore/engine/buffer"
	"github.com/noisecore/engine/engineerr"
	"github.com/noisecore/engine/enginelog"
	"github.com/noisecore/engine/processor"
)

// OpCode is the dense enum of the fixed opcode set.
type OpCode int

const (
	NOOP OpCode = iota
	END
	COPY
	CLEAR
	MIX
	MUL
	SET_FLOAT
	OUTPUT
	FETCH_BUFFER
	FETCH_MESSAGES
	FETCH_CONTROL_VALUE
	NOISE
	SINE
	MIDI_MONKEY
	CONNECT_PORT
	CALL
	LOG_RMS
	LOG_ATOM
)

func (op OpCode) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "unknown"
}

var opNames = map[OpCode]string{
	NOOP: "NOOP", END: "END", COPY: "COPY", CLEAR: "CLEAR", MIX: "MIX", MUL: "MUL",
	SET_FLOAT: "SET_FLOAT", OUTPUT: "OUTPUT", FETCH_BUFFER: "FETCH_BUFFER",
	FETCH_MESSAGES: "FETCH_MESSAGES", FETCH_CONTROL_VALUE: "FETCH_CONTROL_VALUE",
	NOISE: "NOISE", SINE: "SINE", MIDI_MONKEY: "MIDI_MONKEY", CONNECT_PORT: "CONNECT_PORT",
	CALL: "CALL", LOG_RMS: "LOG_RMS", LOG_ATOM: "LOG_ATOM",
}

// ArgKind discriminates an Arg's payload, mirroring the opcode table's
// argspec letters: b=buffer index, i=int, f=float, s=string, p=processor
// index.
type ArgKind byte

const (
	ArgBuffer    ArgKind = 'b'
	ArgInt       ArgKind = 'i'
	ArgFloat     ArgKind = 'f'
	ArgString    ArgKind = 's'
	ArgProcessor ArgKind = 'p'
)

// Arg is one typed instruction argument.
type Arg struct {
	Kind  ArgKind
	Buf   int
	Int   int
	Float float64
	Str   string
	Proc  int
}

func BufArg(idx int) Arg       { return Arg{Kind: ArgBuffer, Buf: idx} }
func IntArg(v int) Arg         { return Arg{Kind: ArgInt, Int: v} }
func FloatArg(v float64) Arg   { return Arg{Kind: ArgFloat, Float: v} }
func StrArg(v string) Arg      { return Arg{Kind: ArgString, Str: v} }
func ProcArg(idx int) Arg      { return Arg{Kind: ArgProcessor, Proc: idx} }

// Instruction is one compiled opcode entry: an OpCode plus its typed
// arguments, in the order the opcode's argspec declares them.
type Instruction struct {
	Op   OpCode
	Args []Arg
}

// ProgramSpec is the immutable, compiled program: ordered instructions,
// the buffer-type table they index into, and the processor table CALL
// and CONNECT_PORT index into. Shared immutably across threads once
// built; never mutated after Compile.
type ProgramSpec struct {
	Instructions []Instruction
	BufferSpecs  []buffer.Type
	Processors   []processor.Processor
}

// Validate checks that every instruction's argument kinds match the
// opcode's declared argspec and that buffer/processor indices are in
// range. A Configuration error, fatal at setup.
func (s ProgramSpec) Validate() error {
	for i, ins := range s.Instructions {
		spec, ok := argSpecs[ins.Op]
		if !ok {
			return engineerr.Configuration("vm: instruction %d: unknown opcode %v", i, ins.Op)
		}
		if len(ins.Args) != len(spec) {
			return engineerr.Configuration("vm: instruction %d (%v): want %d args, got %d", i, ins.Op, len(spec), len(ins.Args))
		}
		for j := 0; j < len(spec); j++ {
			want := spec[j]
			arg := ins.Args[j]
			if byte(arg.Kind) != want {
				return engineerr.Configuration("vm: instruction %d (%v): arg %d kind %q, want %q", i, ins.Op, j, arg.Kind, want)
			}
			switch arg.Kind {
			case ArgBuffer:
				if arg.Buf < 0 || arg.Buf >= len(s.BufferSpecs) {
					return engineerr.Configuration("vm: instruction %d (%v): buffer index %d out of range", i, ins.Op, arg.Buf)
				}
			case ArgProcessor:
				if arg.Proc < 0 || arg.Proc >= len(s.Processors) {
					return engineerr.Configuration("vm: instruction %d (%v): processor index %d out of range", i, ins.Op, arg.Proc)
				}
			}
		}
	}
	return nil
}

// argSpecs declares each opcode's argument kinds in order, the typed
// replacement for the original C source's argspec strings.
var argSpecs = map[OpCode]string{
	NOOP:                "",
	END:                 "",
	COPY:                "bb",
	CLEAR:               "b",
	MIX:                 "bb",
	MUL:                 "bf",
	SET_FLOAT:           "bf",
	OUTPUT:              "bs",
	FETCH_BUFFER:        "sb",
	FETCH_MESSAGES:      "sb",
	FETCH_CONTROL_VALUE: "sb",
	NOISE:               "b",
	SINE:                "bf",
	MIDI_MONKEY:         "bf",
	CONNECT_PORT:        "pib",
	CALL:                "p",
	LOG_RMS:             "b",
	LOG_ATOM:            "b",
}

// Program is a compiled ProgramSpec: its allocated buffer Pool plus the
// per-instruction state Compile creates (SINE's phase accumulator, the
// RNG NOISE and MIDI_MONKEY draw from).
type Program struct {
	Spec ProgramSpec
	Pool *buffer.Pool
	log  enginelog.Logger

	phases []float64 // per-instruction SINE phase accumulator
	rng    randSource
}

// Compile validates spec, allocates its buffer Pool for blockSize, and
// runs every opcode's init function (e.g. CONNECT_PORT binds processor
// ports) exactly once. Allocation happens only here, never mid-block.
func Compile(spec ProgramSpec, blockSize int, log enginelog.Logger) (*Program, error) {
	if log == nil {
		log = enginelog.Silent{}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	p := &Program{
		Spec:   spec,
		Pool:   buffer.NewPool(blockSize, spec.BufferSpecs),
		log:    log,
		phases: make([]float64, len(spec.Instructions)),
		rng:    newRandSource(1),
	}
	for idx, ins := range spec.Instructions {
		entry, ok := opcodeTable[ins.Op]
		if !ok || entry.init == nil {
			continue
		}
		if err := entry.init(p, idx, ins); err != nil {
			return nil, engineerr.Configuration("vm: init failed for instruction %d (%v): %v", idx, ins.Op, err)
		}
	}
	return p, nil
}

// parseLabelset parses a compact "key=value,key2=value2" selector string
// into a buffer.Labelset, the encoding FETCH_MESSAGES's string argument
// uses to carry more than one (key,value) pair through a single 's' slot.
func parseLabelset(s string) buffer.Labelset {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ls := make(buffer.Labelset, 0, len(parts))
	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 {
			ls = append(ls, buffer.Label{Key: kv[0], Value: kv[1]})
		} else {
			ls = append(ls, buffer.Label{Key: kv[0]})
		}
	}
	return ls
}
