package vmath

import "golang.org/x/exp/constraints"

// Clamp restricts x to the closed interval [lo, hi]. Used to keep a cosine
// inside [-1, 1] before it is passed to Acos (sphere and environment-map
// parameterization).
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
