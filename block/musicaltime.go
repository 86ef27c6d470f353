// Package block implements the per-period scratch state the VM executes
// against (BlockContext), and the musical-time / sample-time types the
// Player uses to describe where in a project a given frame falls.
package block

import "fmt"

// MusicalTime is an exact rational timepoint in musical units (beats,
// bars), independent of sample rate. It is always kept in lowest terms
// with a positive denominator.
type MusicalTime struct {
	num int64
	den int64
}

// NewMusicalTime constructs a MusicalTime from a numerator/denominator
// pair and reduces it to lowest terms. den must be non-zero; den == 0
// constructs the zero time.
func NewMusicalTime(num, den int64) MusicalTime {
	if den == 0 {
		return MusicalTime{}
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs64(num), den)
	if g != 0 {
		num, den = num/g, den/g
	}
	return MusicalTime{num: num, den: den}
}

// ZeroTime is MusicalTime(0,1).
var ZeroTime = NewMusicalTime(0, 1)

// NegativeSentinel is MusicalTime(-1,1), used in the not-playing
// SampleTime sentinel.
var NegativeSentinel = NewMusicalTime(-1, 1)

// Numerator returns the reduced numerator.
func (t MusicalTime) Numerator() int64 { return t.num }

// Denominator returns the reduced denominator.
func (t MusicalTime) Denominator() int64 {
	if t.den == 0 {
		return 1
	}
	return t.den
}

// Add returns t + o, exactly.
func (t MusicalTime) Add(o MusicalTime) MusicalTime {
	return NewMusicalTime(t.num*o.Denominator()+o.num*t.Denominator(), t.Denominator()*o.Denominator())
}

// Sub returns t - o, exactly.
func (t MusicalTime) Sub(o MusicalTime) MusicalTime {
	return NewMusicalTime(t.num*o.Denominator()-o.num*t.Denominator(), t.Denominator()*o.Denominator())
}

// SaturateNonNegative clamps t to ZeroTime if negative; used when
// MusicalTime is advanced as a clock.
func (t MusicalTime) SaturateNonNegative() MusicalTime {
	if t.Less(ZeroTime) {
		return ZeroTime
	}
	return t
}

// Compare returns -1, 0 or 1 as t is less than, equal to, or greater
// than o.
func (t MusicalTime) Compare(o MusicalTime) int {
	lhs := t.num * o.Denominator()
	rhs := o.num * t.Denominator()
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// Less reports t < o.
func (t MusicalTime) Less(o MusicalTime) bool { return t.Compare(o) < 0 }

// LessEqual reports t <= o.
func (t MusicalTime) LessEqual(o MusicalTime) bool { return t.Compare(o) <= 0 }

// Equal reports t == o.
func (t MusicalTime) Equal(o MusicalTime) bool { return t.Compare(o) == 0 }

// Min returns the smaller of t and o.
func (t MusicalTime) Min(o MusicalTime) MusicalTime {
	if o.Less(t) {
		return o
	}
	return t
}

func (t MusicalTime) String() string {
	return fmt.Sprintf("%d/%d", t.num, t.Denominator())
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
