// Package stats implements the numeric primitives behind every report.
//
// The contracts here are deliberately strict so independently written
// implementations of the same reports produce bit-identical output:
// accumulation follows the caller's sequence order, degenerate divisions
// resolve to explicit null/clamp policies instead of substituting zero, and
// rounding happens only at the serialization boundary via Round2.
package stats

import (
	"math"
	"sort"
)

// Sum accumulates values left to right in sequence order. Callers must not
// reorder values before summing; the stable accumulation order is part of
// the cross-implementation determinism contract.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean of values. ok is false when values is
// empty; the mean is undefined, never zero.
func Mean(values []float64) (mean float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	return Sum(values) / float64(len(values)), true
}

// Median returns the median of values: the middle element for odd counts,
// the mean of the two middle elements for even counts. The input slice is
// not modified. Returns 0 for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentage returns 100 * count(pred) / len(values), and 0 for an empty
// slice (never NaN).
func Percentage(values []float64, pred func(float64) bool) float64 {
	if len(values) == 0 {
		return 0
	}
	matched := 0
	for _, v := range values {
		if pred(v) {
			matched++
		}
	}
	return 100 * float64(matched) / float64(len(values))
}

// CappedRatio clamps x into [lo, hi].
func CappedRatio(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// PercentChange returns 100 * (current - baseline) / |baseline|. ok is false
// when baseline is zero: the change is undefined, reported as null rather
// than zero or infinity.
func PercentChange(current, baseline float64) (change float64, ok bool) {
	if baseline == 0 {
		return 0, false
	}
	return 100 * (current - baseline) / math.Abs(baseline), true
}

// Round2 rounds v to 2 decimal places using half-away-from-zero rounding
// (not banker's rounding). It is applied at serialization only; internal
// computation carries full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
