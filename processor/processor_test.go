package processor

import (
	"testing"

	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullProcessorRunsNoop(t *testing.T) {
	p := NewNull()
	require.NoError(t, p.Setup(Spec{Ports: []Port{{Name: "in"}}}))
	b := buffer.Allocate(buffer.Type{Kind: buffer.FloatAudioBlock}, 8)
	require.NoError(t, p.ConnectPort(0, b))
	ctx := block.NewContext(8)
	ctx.BeginBlock(0)
	assert.NoError(t, p.Run(ctx))
}

func TestGainProcessorScalesInputToOutput(t *testing.T) {
	p := NewGain()
	spec := Spec{Ports: []Port{
		{Name: "in", Direction: PortInput, Type: buffer.Type{Kind: buffer.FloatAudioBlock}},
		{Name: "out", Direction: PortOutput, Type: buffer.Type{Kind: buffer.FloatAudioBlock}},
	}}
	require.NoError(t, p.Setup(spec))

	in := buffer.Allocate(buffer.Type{Kind: buffer.FloatAudioBlock}, 4)
	for i := range in.Floats {
		in.Floats[i] = 1.0
	}
	out := buffer.Allocate(buffer.Type{Kind: buffer.FloatAudioBlock}, 4)
	require.NoError(t, p.ConnectPort(spec.PortIndex("in"), in))
	require.NoError(t, p.ConnectPort(spec.PortIndex("out"), out))

	p.SetParameters(map[string]float64{"gain": 0.5})
	ctx := block.NewContext(4)
	ctx.BeginBlock(0)
	require.NoError(t, p.Run(ctx))
	for _, v := range out.Floats {
		assert.Equal(t, 0.5, v)
	}
}

func TestGainParametersApplyAtNextRunOnly(t *testing.T) {
	p := NewGain()
	spec := Spec{Ports: []Port{
		{Name: "in", Type: buffer.Type{Kind: buffer.FloatAudioBlock}},
		{Name: "out", Type: buffer.Type{Kind: buffer.FloatAudioBlock}},
	}}
	require.NoError(t, p.Setup(spec))
	in := buffer.Allocate(buffer.Type{Kind: buffer.FloatAudioBlock}, 2)
	in.Floats[0], in.Floats[1] = 1, 1
	out := buffer.Allocate(buffer.Type{Kind: buffer.FloatAudioBlock}, 2)
	require.NoError(t, p.ConnectPort(0, in))
	require.NoError(t, p.ConnectPort(1, out))

	ctx := block.NewContext(2)
	ctx.BeginBlock(0)
	require.NoError(t, p.Run(ctx)) // gain still 1.0 before SetParameters
	assert.Equal(t, 1.0, out.Floats[0])

	p.SetParameters(map[string]float64{"gain": 2.0})
	// Queued, so a run started concurrently before this point already
	// used the old value; the *next* run sees 2.0.
	ctx.BeginBlock(2)
	require.NoError(t, p.Run(ctx))
	assert.Equal(t, 2.0, out.Floats[0])
}

func TestCreateUnknownKindIsConfigurationError(t *testing.T) {
	_, err := Create(NodeDescription{Kind: "ladspa"}, nil)
	require.Error(t, err)
}

func TestCreateNull(t *testing.T) {
	p, err := Create(NodeDescription{Kind: KindNull}, nil)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestGuardFiresOnce(t *testing.T) {
	count := 0
	g := NewGuard(func() { count++ })
	require.NoError(t, g.Close())
	require.NoError(t, g.Close())
	assert.Equal(t, 1, count)
}

func TestGuardDisarm(t *testing.T) {
	count := 0
	g := NewGuard(func() { count++ })
	g.Disarm()
	require.NoError(t, g.Close())
	assert.Equal(t, 0, count)
}

func TestHostSystemMapIsStable(t *testing.T) {
	h := NewHostSystem()
	id1 := h.Map("urn:noisecore:note-on")
	id2 := h.Map("urn:noisecore:note-on")
	assert.Equal(t, id1, id2)
	assert.Equal(t, "urn:noisecore:note-on", h.Unmap(id1))
}
