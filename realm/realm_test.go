package realm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/noisecore/engine/backend"
	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/buffer"
	"github.com/noisecore/engine/player"
	"github.com/noisecore/engine/processor"
	"github.com/noisecore/engine/pump"
	"github.com/noisecore/engine/vm"
)

func TestRealmSilentNullBackendTenBlocks(t *testing.T) {
	spec := vm.ProgramSpec{
		Instructions: []vm.Instruction{
			{Op: vm.CLEAR, Args: []vm.Arg{vm.BufArg(0)}},
			{Op: vm.OUTPUT, Args: []vm.Arg{vm.BufArg(0), vm.StrArg("left")}},
			{Op: vm.OUTPUT, Args: []vm.Arg{vm.BufArg(0), vm.StrArg("right")}},
			{Op: vm.END},
		},
		BufferSpecs: []buffer.Type{{Kind: buffer.FloatAudioBlock}},
	}
	prog, err := vm.Compile(spec, 64, nil)
	require.NoError(t, err)

	be := backend.NewNull(backend.Settings{}, nil)
	pl := player.New(nil, nil)
	tm := player.NewConstantTempo(1, 4, block.NewMusicalTime(4, 1))

	r, err := New(prog, pl, tm, be, nil)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, r.RunBlock())
		outs := be.Outputs()
		require.Len(t, outs, 2)
		for _, o := range outs {
			for _, s := range o.Samples {
				assert.Equal(t, 0.0, s)
			}
		}
	}
}

func TestRealmNoiseRMSBound(t *testing.T) {
	spec := vm.ProgramSpec{
		Instructions: []vm.Instruction{
			{Op: vm.NOISE, Args: []vm.Arg{vm.BufArg(0)}},
			{Op: vm.LOG_RMS, Args: []vm.Arg{vm.BufArg(0)}},
			{Op: vm.END},
		},
		BufferSpecs: []buffer.Type{{Kind: buffer.FloatAudioBlock}},
	}
	prog, err := vm.Compile(spec, 1024, nil)
	require.NoError(t, err)

	be := backend.NewNull(backend.Settings{}, nil)
	pl := player.New(nil, nil)
	tm := player.NewConstantTempo(1, 4, block.NewMusicalTime(4, 1))

	r, err := New(prog, pl, tm, be, nil)
	require.NoError(t, err)
	require.NoError(t, r.RunBlock())

	rms := buffer.RMS(prog.Pool.At(0))
	assert.InDelta(t, 0.577, rms, 0.05)
}

func TestRealmRunExitsOnBackendStop(t *testing.T) {
	spec := vm.ProgramSpec{
		Instructions: []vm.Instruction{{Op: vm.END}},
	}
	prog, err := vm.Compile(spec, 32, nil)
	require.NoError(t, err)

	be := backend.NewNull(backend.Settings{}, nil)
	pl := player.New(nil, nil)
	tm := player.NewConstantTempo(1, 4, block.NewMusicalTime(4, 1))

	r, err := New(prog, pl, tm, be, nil)
	require.NoError(t, err)

	be.Stop()
	require.NoError(t, r.Run(100))
}

func TestRealmComponentIDStable(t *testing.T) {
	spec := vm.ProgramSpec{Instructions: []vm.Instruction{{Op: vm.END}}}
	prog, err := vm.Compile(spec, 32, nil)
	require.NoError(t, err)

	be := backend.NewNull(backend.Settings{}, nil)
	pl := player.New(nil, nil)
	tm := player.NewConstantTempo(1, 4, block.NewMusicalTime(4, 1))

	r, err := New(prog, pl, tm, be, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, r.ComponentID())
}

func TestRealmSetControlFetchedByProgram(t *testing.T) {
	spec := vm.ProgramSpec{
		Instructions: []vm.Instruction{
			{Op: vm.FETCH_CONTROL_VALUE, Args: []vm.Arg{vm.StrArg("gain"), vm.BufArg(0)}},
			{Op: vm.END},
		},
		BufferSpecs: []buffer.Type{{Kind: buffer.Float}},
	}
	prog, err := vm.Compile(spec, 8, nil)
	require.NoError(t, err)

	be := backend.NewNull(backend.Settings{}, nil)
	pl := player.New(nil, nil)
	tm := player.NewConstantTempo(1, 4, block.NewMusicalTime(4, 1))

	r, err := New(prog, pl, tm, be, nil)
	require.NoError(t, err)

	r.SetControl("gain", 0.75)
	require.NoError(t, r.RunBlock())

	buf := prog.Pool.At(0)
	for _, s := range buf.Floats {
		assert.Equal(t, 0.75, s)
	}
}

type cleanupErrProcessor struct{ processor.Null }

func (c *cleanupErrProcessor) Cleanup() error { return assert.AnError }

func TestRealmCloseCollectsProcessorCleanupErrors(t *testing.T) {
	spec := vm.ProgramSpec{
		Instructions: []vm.Instruction{{Op: vm.END}},
		Processors:   []processor.Processor{&cleanupErrProcessor{}},
	}
	prog, err := vm.Compile(spec, 32, nil)
	require.NoError(t, err)

	be := backend.NewNull(backend.Settings{}, nil)
	pl := player.New(nil, nil)
	tm := player.NewConstantTempo(1, 4, block.NewMusicalTime(4, 1))

	r, err := New(prog, pl, tm, be, nil)
	require.NoError(t, err)

	err = r.Close()
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPlayerOutPumpConsumerGoroutineLeavesNoLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := pump.New[player.State]()
	received := make(chan player.State, 1)
	go out.Run(func(s player.State) { received <- s })

	pl := player.New(out, nil)
	pl.Push(player.MutatePlaying(true))

	ctxt := block.NewContext(8)
	pl.FillTimeMap(player.NewConstantTempo(1, 4, block.NewMusicalTime(4, 1)), ctxt)

	snap := <-received
	assert.True(t, snap.Playing)

	out.Stop()
}
