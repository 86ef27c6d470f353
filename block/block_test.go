package block

import (
	"testing"

	"github.com/noisecore/engine/buffer"
	"github.com/stretchr/testify/assert"
)

func TestMusicalTimeArithmetic(t *testing.T) {
	a := NewMusicalTime(1, 2)
	b := NewMusicalTime(1, 4)
	assert.Equal(t, NewMusicalTime(3, 4), a.Add(b))
	assert.Equal(t, NewMusicalTime(1, 4), a.Sub(b))
	assert.True(t, b.Less(a))
	assert.True(t, a.Equal(NewMusicalTime(2, 4)))
}

func TestMusicalTimeTotalOrdering(t *testing.T) {
	times := []MusicalTime{
		NewMusicalTime(4, 1),
		NewMusicalTime(1, 2),
		NewMusicalTime(0, 1),
		NewMusicalTime(3, 2),
	}
	for i := 1; i < len(times); i++ {
		for j := 0; j < i; j++ {
			assert.Equal(t, -times[j].Compare(times[i]), times[i].Compare(times[j]))
		}
	}
	assert.True(t, NewMusicalTime(0, 1).Less(NewMusicalTime(1, 2)))
}

func TestMusicalTimeSaturatesNonNegative(t *testing.T) {
	neg := NewMusicalTime(-3, 2)
	assert.Equal(t, ZeroTime, neg.SaturateNonNegative())
	pos := NewMusicalTime(3, 2)
	assert.Equal(t, pos, pos.SaturateNonNegative())
}

func TestNotPlayingSentinel(t *testing.T) {
	assert.True(t, NotPlaying.IsNotPlaying())
	other := SampleTime{StartTime: ZeroTime, EndTime: NewMusicalTime(1, 1)}
	assert.False(t, other.IsNotPlaying())
}

func TestContextBeginBlockClearsQueues(t *testing.T) {
	ctx := NewContext(4)
	ctx.InMessages = buffer.Atoms{{FrameTime: 1}}
	ctx.OutMessages = buffer.Atoms{{FrameTime: 2}}
	ctx.Perf.OpcodesExecuted = 10
	ctx.BeginBlock(128)
	assert.Equal(t, int64(128), ctx.SamplePos)
	assert.Len(t, ctx.TimeMap, 4)
	assert.Empty(t, ctx.InMessages)
	assert.Empty(t, ctx.OutMessages)
	assert.Equal(t, 0, ctx.Perf.OpcodesExecuted)
}

func TestContextEmit(t *testing.T) {
	ctx := NewContext(4)
	ctx.BeginBlock(0)
	ctx.Emit(buffer.Event{FrameTime: 1})
	assert.Len(t, ctx.OutMessages, 1)
}
