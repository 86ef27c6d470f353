package buffer

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// rms computes sqrt(mean(x^2)) using gonum's Dot product instead of a
// hand-rolled accumulation loop.
func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sumSquares := floats.Dot(x, x)
	return math.Sqrt(sumSquares / float64(len(x)))
}
