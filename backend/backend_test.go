package backend

import (
	"os"
	"testing"

	"github.com/noisecore/engine/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct{ id string }

func (h fakeHost) ComponentID() string { return h.id }

func TestFactoryNull(t *testing.T) {
	b, err := Factory("null", Settings{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Null{}, b)
}

func TestFactoryUnknown(t *testing.T) {
	_, err := Factory("cassette", Settings{}, nil)
	assert.Error(t, err)
}

func TestNullBackendRecordsOutputsPerBlock(t *testing.T) {
	n := NewNull(Settings{}, nil)
	require.NoError(t, n.Setup(fakeHost{"r1"}))
	ctx := block.NewContext(4)
	ctx.BeginBlock(0)
	require.NoError(t, n.BeginBlock(ctx))
	require.NoError(t, n.Output(ctx, "left", []float64{0, 0, 0, 0}))
	require.NoError(t, n.Output(ctx, "right", []float64{0, 0, 0, 0}))
	assert.Len(t, n.Outputs(), 2)
	require.NoError(t, n.EndBlock(ctx))

	// next block clears the recorded outputs
	ctx.BeginBlock(4)
	require.NoError(t, n.BeginBlock(ctx))
	assert.Len(t, n.Outputs(), 0)
}

func TestNullBackendStop(t *testing.T) {
	n := NewNull(Settings{}, nil)
	assert.False(t, n.Stopped())
	n.Stop()
	assert.True(t, n.Stopped())
}

func TestWavFileWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/out.wav"
	w, err := NewWavFile(Settings{}, nil, WithWavPath(path), WithWavFormat(8000, 2))
	require.NoError(t, err)
	require.NoError(t, w.Setup(fakeHost{"r1"}))
	ctx := block.NewContext(4)
	ctx.BeginBlock(0)
	require.NoError(t, w.Output(ctx, "left", []float64{0.1, 0.2, 0.3, 0.4}))
	require.NoError(t, w.Output(ctx, "right", []float64{0.1, 0.2, 0.3, 0.4}))
	w.Cleanup()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWavFileDropsUnknownChannel(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWavFile(Settings{}, nil, WithWavPath(dir+"/out.wav"))
	require.NoError(t, err)
	require.NoError(t, w.Setup(fakeHost{"r1"}))
	ctx := block.NewContext(2)
	ctx.BeginBlock(0)
	assert.NoError(t, w.Output(ctx, "surround", []float64{0, 0}))
	w.Cleanup()
}

func TestDatastreamRejectsEmptyAddress(t *testing.T) {
	_, err := NewDatastream(Settings{}, nil)
	assert.Error(t, err)
}
