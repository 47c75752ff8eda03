// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math"

	"github.com/pdiddy/reading-planner/internal/embed"
)

// Epsilon keeps Normalize finite for the zero vector.
const Epsilon = 1e-12

// Normalize returns v scaled to unit Euclidean length, computed as
// v / (‖v‖ + Epsilon). The zero vector maps to the zero vector.
func Normalize(v embed.Vector) embed.Vector {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	inv := 1 / (math.Sqrt(sum) + Epsilon)

	out := make(embed.Vector, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// Dot returns the dot product of a and b, the cosine similarity when both
// are unit length. Vectors must have equal length.
func Dot(a, b embed.Vector) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// Norm returns the Euclidean length of v.
func Norm(v embed.Vector) float64 {
	return math.Sqrt(Dot(v, v))
}
