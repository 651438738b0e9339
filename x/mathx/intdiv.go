package mathx

import "golang.org/x/exp/constraints"

// RoundDiv returns floor((a + b/2)/b), classic rounding for positives.
func RoundDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}

// NearestDiv returns the integer divider in [1, maxDiv] that brings n
// closest to want. want == 0 selects maxDiv.
func NearestDiv[T constraints.Unsigned](n, want, maxDiv T) T {
	maxDiv = Max(maxDiv, 1)
	if want == 0 {
		return maxDiv
	}
	d := Clamp(RoundDiv(n, want), 1, maxDiv)
	// Rounding the quotient is not the same as rounding the rate; check
	// the neighbour on the other side.
	if d < maxDiv && absDiff(n/(d+1), want) < absDiff(n/d, want) {
		d++
	} else if d > 1 && absDiff(n/(d-1), want) < absDiff(n/d, want) {
		d--
	}
	return d
}

func absDiff[T constraints.Unsigned](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}
