package buffer

import "sort"

// Label is a single (key, value) pair attached to an Event for routing
// and filtering, the Go stand-in for an LV2 atom's labelset entry.
type Label struct {
	Key   string
	Value string
}

// Labelset is an ordered list of Labels carried by an Event.
type Labelset []Label

// Has reports whether every label in want is present in the set. This is
// the FETCH_MESSAGES matching rule from the opcode table: msg matches the
// opcode's labelset iff every label in the opcode's labelset appears in
// msg.Labelset.
func (ls Labelset) Has(want Labelset) bool {
	for _, w := range want {
		found := false
		for _, l := range ls {
			if l == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Event is a single typed, labelled occurrence inside an AtomData buffer:
// a note-on, a control change, a routed message. FrameTime is the offset
// within the block the event belongs to.
type Event struct {
	FrameTime int
	Labelset  Labelset
	Data      []byte
}

// Atoms is an ordered sequence of Events, the payload of an AtomData
// buffer.
type Atoms []Event

// mergeAtoms merges src into dst preserving frame-time ordering. Events
// with equal FrameTime keep their relative arrival order (dst's existing
// events before src's newly mixed-in ones), matching a stable merge.
// Neither sequence is guaranteed sorted on entry — FETCH_MESSAGES
// preserves input order rather than frame-time order, and a processor
// may call ctxt.Emit for frame times out of sequence across a block —
// so both are sorted first.
func mergeAtoms(dst, src Atoms) Atoms {
	if len(src) == 0 {
		return dst
	}
	sortAtoms(dst)
	sortAtoms(src)
	merged := make(Atoms, 0, len(dst)+len(src))
	i, j := 0, 0
	for i < len(dst) && j < len(src) {
		if dst[i].FrameTime <= src[j].FrameTime {
			merged = append(merged, dst[i])
			i++
		} else {
			merged = append(merged, src[j])
			j++
		}
	}
	merged = append(merged, dst[i:]...)
	merged = append(merged, src[j:]...)
	return merged
}

// FilterAtoms returns a new sequence containing, in input order, the
// events whose Labelset matches want per Labelset.Has, with FrameTime
// forced to 0. This is the FETCH_MESSAGES opcode's matching rule.
func FilterAtoms(in Atoms, want Labelset) Atoms {
	return filterAtoms(in, want)
}

// filterAtoms returns a new sequence containing, in input order, the
// events whose Labelset matches want per Labelset.Has, with FrameTime
// forced to 0 (FETCH_MESSAGES forges matched atoms at frame_time=0).
func filterAtoms(in Atoms, want Labelset) Atoms {
	out := make(Atoms, 0, len(in))
	for _, e := range in {
		if e.Labelset.Has(want) {
			forged := e
			forged.FrameTime = 0
			out = append(out, forged)
		}
	}
	return out
}

// sortAtoms sorts a in place by FrameTime, stably. mergeAtoms relies on
// this to hold its stable two-pointer merge's precondition regardless of
// the order events arrived in.
func sortAtoms(a Atoms) {
	sort.SliceStable(a, func(i, j int) bool { return a[i].FrameTime < a[j].FrameTime })
}
