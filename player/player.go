// Package player implements the transport state machine and the
// musical-time / sample-time map filled into a BlockContext every
// period, grounded on noisicaa/audioproc/engine/player.cpp.
package player

import (
	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/enginelog"
	"github.com/noisecore/engine/pump"
)

// Player owns the transport State, a multi-producer mutation queue
// drained at the head of every block, and an outbound Pump publishing a
// fresh snapshot once per block for a UI or other control-side
// consumer.
type Player struct {
	state   State
	tmapIt  *Iterator
	queue   *mutationQueue
	outPump *pump.Pump[State]
	log     enginelog.Logger

	scratch []PlayerStateMutation // reused across blocks, no per-block alloc.
}

// New constructs a Player. outPump may be nil if the caller does not
// need the outbound snapshot stream (tests commonly pass nil).
func New(outPump *pump.Pump[State], log enginelog.Logger) *Player {
	if log == nil {
		log = enginelog.Silent{}
	}
	return &Player{
		queue:   newMutationQueue(64),
		outPump: outPump,
		log:     log,
	}
}

// Push enqueues a mutation from a control thread. Safe for concurrent
// callers; never applied synchronously.
func (p *Player) Push(m PlayerStateMutation) {
	p.queue.Push(m)
}

// State returns a copy of the Player's current transport state. Intended
// for tests and diagnostics; the audio thread should not call this
// mid-block.
func (p *Player) State() State {
	return p.state
}

// DroppedMutations returns how many mutations were dropped due to queue
// overflow, a transient condition that never aborts playback.
func (p *Player) DroppedMutations() uint64 {
	return p.queue.Dropped()
}

// FillTimeMap drains pending mutations, then either fills ctxt.TimeMap
// with monotonically advancing SampleTime segments while playing, or
// with the not-playing sentinel.
func (p *Player) FillTimeMap(tm TimeMapper, ctxt *block.Context) {
	p.scratch = p.queue.DrainInto(p.scratch[:0])
	for _, m := range p.scratch {
		m.apply(&p.state)
		if m.CurrentTime != nil {
			p.tmapIt = tm.Find(p.state.CurrentTime)
		}
	}

	if len(ctxt.TimeMap) != ctxt.BlockSize {
		ctxt.TimeMap = make([]block.SampleTime, ctxt.BlockSize)
	}

	i := 0
	if p.state.Playing {
		if p.tmapIt == nil || !p.tmapIt.OwnedBy(tm) {
			p.tmapIt = tm.Find(p.state.CurrentTime)
		}

		loopStart := block.ZeroTime
		loopEnd := tm.EndTime()
		loopActive := false
		if p.state.LoopEnabled && !p.state.LoopStartTime.Less(block.ZeroTime) &&
			!p.state.LoopEndTime.Less(block.ZeroTime) && p.state.LoopStartTime.Less(p.state.LoopEndTime) {
			loopStart = p.state.LoopStartTime
			loopEnd = p.state.LoopEndTime
			loopActive = true
		} else if p.state.LoopEnabled {
			p.log.Warn("player: loop_start_time >= loop_end_time, treating as loop-disabled for this block")
		}

		for i < ctxt.BlockSize {
			if !p.state.CurrentTime.Less(loopEnd) {
				if !loopActive {
					p.state.CurrentTime = loopEnd
					p.state.Playing = false
					break
				}
				p.state.CurrentTime = loopStart
				p.tmapIt = tm.Find(p.state.CurrentTime)
			}

			prevTime := p.state.CurrentTime
			next := p.tmapIt.Advance()
			p.state.CurrentTime = next.Min(loopEnd)

			ctxt.TimeMap[i] = block.SampleTime{StartTime: prevTime, EndTime: p.state.CurrentTime}
			i++
		}

		if !p.state.Playing {
			p.log.Info("player: playback stopped")
		}
	}

	for ; i < ctxt.BlockSize; i++ {
		ctxt.TimeMap[i] = block.NotPlaying
	}

	if p.outPump != nil {
		p.outPump.Push(p.state)
	}
}
