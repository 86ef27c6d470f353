package player

import "github.com/noisecore/engine/block"

// TimeMapper abstracts the tempo map: Find positions an Iterator at a
// musical time, EndTime is the end of the project.
type TimeMapper interface {
	Find(t block.MusicalTime) *Iterator
	EndTime() block.MusicalTime
}

// Iterator walks a TimeMapper one sample at a time. It carries the
// identity of the TimeMapper that created it so the Player can detect
// when the TimeMapper has been replaced underneath it and re-seed
// defensively, per noisicaa's player.cpp (`_tmap_it.is_owned_by(...)`).
type Iterator struct {
	owner TimeMapper
	pos   block.MusicalTime
	step  block.MusicalTime
}

// OwnedBy reports whether this iterator was produced by owner.
func (it *Iterator) OwnedBy(owner TimeMapper) bool {
	return it != nil && it.owner == owner
}

// Value returns the musical time at the iterator's current position.
func (it *Iterator) Value() block.MusicalTime {
	return it.pos
}

// Advance moves the iterator forward by exactly one frame in musical
// time and returns the new value.
func (it *Iterator) Advance() block.MusicalTime {
	it.pos = it.pos.Add(it.step)
	return it.pos
}

// ConstantTempo is a TimeMapper with a fixed tempo (a fixed musical-time
// increment per sample) and a fixed project end time. It is the
// reference TimeMapper used by the core's own tests; real projects
// would supply a tempo-map-backed implementation as a collaborator.
type ConstantTempo struct {
	stepPerSample block.MusicalTime
	end           block.MusicalTime
}

// NewConstantTempo builds a TimeMapper that advances
// beatsPerSample musical-time units for every sample and ends at end.
func NewConstantTempo(beatsPerSampleNum, beatsPerSampleDen int64, end block.MusicalTime) *ConstantTempo {
	return &ConstantTempo{
		stepPerSample: block.NewMusicalTime(beatsPerSampleNum, beatsPerSampleDen),
		end:           end,
	}
}

// Find returns an Iterator owned by tm positioned at t.
func (tm *ConstantTempo) Find(t block.MusicalTime) *Iterator {
	return &Iterator{owner: tm, pos: t, step: tm.stepPerSample}
}

// EndTime returns the project end time.
func (tm *ConstantTempo) EndTime() block.MusicalTime {
	return tm.end
}
