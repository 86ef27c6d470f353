package vm

import "math/rand"

// randSource is the NOISE/MIDI_MONKEY opcodes' random draw source. A
// *rand.Rand kept on the Program rather than the global generator, so
// two Programs never share draw state and a fixed seed makes a Program's
// output reproducible across runs.
//
// Uses the standard library directly: none of the example repos import a
// third-party PRNG, and math/rand's Source/Rand split is already the
// idiomatic per-instance generator shape.
type randSource struct {
	r *rand.Rand
}

func newRandSource(seed int64) randSource {
	return randSource{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a pseudo-random float64 in [0, 1).
func (s randSource) Float64() float64 {
	return s.r.Float64()
}

// Intn returns a pseudo-random int in [0, n).
func (s randSource) Intn(n int) int {
	return s.r.Intn(n)
}
