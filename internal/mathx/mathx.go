// Package mathx holds the small numeric helpers shared by the shape,
// solver and fluid packages.
package mathx

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01[T constraints.Float](v T) T {
	return Clamp(v, 0, 1)
}

// Lerp blends a and b by t without clamping t.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// RoundTo rounds v to the nearest multiple of step. Halves round away from
// zero so that v and -v round symmetrically.
func RoundTo[T constraints.Float](v, step T) T {
	if step <= 0 {
		return v
	}
	return T(math.Round(float64(v/step))) * step
}

// Finite reports whether v is neither NaN nor infinite.
func Finite[T constraints.Float](v T) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FiniteOr returns v when it is finite and fallback otherwise.
func FiniteOr[T constraints.Float](v, fallback T) T {
	if Finite(v) {
		return v
	}
	return fallback
}

// NonNegative clamps small negative noise to zero.
func NonNegative[T constraints.Float](v T) T {
	if v < 0 {
		return 0
	}
	return v
}
