package player

import "github.com/noisecore/engine/block"

// State is the Player's transport state, published outward once per
// block via Pump and consumed from a multi-producer mutation queue.
type State struct {
	Playing       bool
	CurrentTime   block.MusicalTime
	LoopEnabled   bool
	LoopStartTime block.MusicalTime
	LoopEndTime   block.MusicalTime
}

// PlayerStateMutation carries an optional new value for each State
// field; a nil pointer means "leave unchanged". Mutations are coalesced
// in arrival order by the mutation queue.
type PlayerStateMutation struct {
	Playing       *bool
	CurrentTime   *block.MusicalTime
	LoopEnabled   *bool
	LoopStartTime *block.MusicalTime
	LoopEndTime   *block.MusicalTime
}

// apply merges m into s, field by field, last-write-wins.
func (m PlayerStateMutation) apply(s *State) {
	if m.Playing != nil {
		s.Playing = *m.Playing
	}
	if m.CurrentTime != nil {
		s.CurrentTime = *m.CurrentTime
	}
	if m.LoopEnabled != nil {
		s.LoopEnabled = *m.LoopEnabled
	}
	if m.LoopStartTime != nil {
		s.LoopStartTime = *m.LoopStartTime
	}
	if m.LoopEndTime != nil {
		s.LoopEndTime = *m.LoopEndTime
	}
}

func boolPtr(b bool) *bool                         { return &b }
func timePtr(t block.MusicalTime) *block.MusicalTime { return &t }

// MutatePlaying returns a mutation setting only Playing.
func MutatePlaying(v bool) PlayerStateMutation {
	return PlayerStateMutation{Playing: boolPtr(v)}
}

// MutateCurrentTime returns a mutation setting only CurrentTime.
func MutateCurrentTime(v block.MusicalTime) PlayerStateMutation {
	return PlayerStateMutation{CurrentTime: timePtr(v)}
}

// MutateLoop returns a mutation setting loop enablement and bounds
// together, the common case for a single user action.
func MutateLoop(enabled bool, start, end block.MusicalTime) PlayerStateMutation {
	return PlayerStateMutation{LoopEnabled: boolPtr(enabled), LoopStartTime: timePtr(start), LoopEndTime: timePtr(end)}
}
