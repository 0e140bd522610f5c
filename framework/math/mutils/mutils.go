package mutils

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

func Clamp[T Number](x, minV, maxV T) T {
	return min(maxV, max(minV, x))
}

func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// RoundHalfAwayFromZero rounds to the nearest integer, halves go away from zero (2.5 -> 3, -2.5 -> -3).
func RoundHalfAwayFromZero(x float64) int64 {
	return int64(math.Round(x))
}

// SanitizeFloat returns 0 for NaN and infinite values.
func SanitizeFloat(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}

	return x
}
