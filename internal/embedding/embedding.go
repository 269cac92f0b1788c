// Package embedding implements the vector math used by face authentication:
// structural validation, unit-length normalization, the multi-metric
// similarity engine and the enrollment quality scorer. All functions are
// pure and safe for concurrent use.
package embedding

import (
	"math"
)

// Dim is the dimensionality of face embeddings produced by the detection
// pipeline. Every comparison requires both operands to have exactly this
// length.
const Dim = 128

// Magnitude returns the Euclidean norm of the vector.
func Magnitude(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of the embedding. The second return
// value reports whether normalization was applied: a zero-magnitude vector
// cannot be scaled, so an unchanged copy is returned together with false.
// This is a degenerate-but-non-fatal condition, not an error.
func Normalize(v []float64) ([]float64, bool) {
	out := make([]float64, len(v))
	copy(out, v)

	mag := Magnitude(v)
	if mag == 0 {
		return out, false
	}

	for i := range out {
		out[i] /= mag
	}
	return out, true
}
