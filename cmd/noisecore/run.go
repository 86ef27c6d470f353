package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noisecore/engine/backend"
	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/buffer"
	"github.com/noisecore/engine/enginelog"
	"github.com/noisecore/engine/player"
	"github.com/noisecore/engine/realm"
	"github.com/noisecore/engine/vm"
)

type runFlags struct {
	backendKind       string
	program           string
	blocks            int
	blockSize         int
	outPath           string
	datastreamAddress string
}

func newRunCommand() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "drive a built-in demo Program against a Backend for N blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(f)
		},
	}
	cmd.Flags().StringVar(&f.backendKind, "backend", "null", "backend kind: null, wavfile, datastream")
	cmd.Flags().StringVar(&f.program, "program", "silence", "demo program: silence, noise")
	cmd.Flags().IntVar(&f.blocks, "blocks", 10, "number of blocks to run")
	cmd.Flags().IntVar(&f.blockSize, "block-size", 64, "frames per block")
	cmd.Flags().StringVar(&f.outPath, "out", "out.wav", "output path for the wavfile backend")
	cmd.Flags().StringVar(&f.datastreamAddress, "datastream-address", "", "ws:// endpoint for the datastream backend")
	return cmd
}

func runDemo(f runFlags) error {
	log := enginelog.New()

	spec, err := demoProgramSpec(f.program)
	if err != nil {
		return err
	}
	prog, err := vm.Compile(spec, f.blockSize, log)
	if err != nil {
		return fmt.Errorf("compile program: %w", err)
	}

	settings := backend.Settings{DatastreamAddress: f.datastreamAddress, TimeScale: 1.0}
	var be backend.Backend
	switch f.backendKind {
	case "wavfile":
		be, err = backend.NewWavFile(settings, log, backend.WithWavPath(f.outPath))
	default:
		be, err = backend.Factory(f.backendKind, settings, log)
	}
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	pl := player.New(nil, log)
	tm := player.NewConstantTempo(1, 4, block.NewMusicalTime(16, 1))

	r, err := realm.New(prog, pl, tm, be, log)
	if err != nil {
		return fmt.Errorf("create realm: %w", err)
	}
	defer r.Close()

	return r.Run(f.blocks)
}

// demoProgramSpec builds one of the two fixed demo Programs a headless
// run can exercise: "silence", which clears and outputs a buffer
// unconditionally, and "noise", which seeds a buffer from NOISE before
// outputting it.
func demoProgramSpec(name string) (vm.ProgramSpec, error) {
	switch name {
	case "silence":
		return vm.ProgramSpec{
			Instructions: []vm.Instruction{
				{Op: vm.CLEAR, Args: []vm.Arg{vm.BufArg(0)}},
				{Op: vm.OUTPUT, Args: []vm.Arg{vm.BufArg(0), vm.StrArg("left")}},
				{Op: vm.OUTPUT, Args: []vm.Arg{vm.BufArg(0), vm.StrArg("right")}},
				{Op: vm.END},
			},
			BufferSpecs: []buffer.Type{{Kind: buffer.FloatAudioBlock}},
		}, nil
	case "noise":
		return vm.ProgramSpec{
			Instructions: []vm.Instruction{
				{Op: vm.NOISE, Args: []vm.Arg{vm.BufArg(0)}},
				{Op: vm.LOG_RMS, Args: []vm.Arg{vm.BufArg(0)}},
				{Op: vm.OUTPUT, Args: []vm.Arg{vm.BufArg(0), vm.StrArg("left")}},
				{Op: vm.OUTPUT, Args: []vm.Arg{vm.BufArg(0), vm.StrArg("right")}},
				{Op: vm.END},
			},
			BufferSpecs: []buffer.Type{{Kind: buffer.FloatAudioBlock}},
		}, nil
	default:
		return vm.ProgramSpec{}, fmt.Errorf("run: unknown demo program %q", name)
	}
}
