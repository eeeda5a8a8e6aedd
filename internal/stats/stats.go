// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of xs.
// Returns 0 for fewer than 2 points (no NaN propagation).
func Mean(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the population standard deviation of xs (divide by N,
// not N-1). Returns 0 for fewer than 2 points.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := Mean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// Percentile returns the p-th percentile of xs (p in [0, 100]) using the
// nearest-rank method on a sorted copy. The input slice is not mutated.
// Returns 0 for fewer than 2 points.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	// Nearest rank: smallest index whose rank covers p percent.
	rank := int(math.Ceil(p / 100.0 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// TrendSlope returns the difference between the most recent point and the
// oldest point in xs, divided by the index gap. A positive slope means
// the underlying quantity is increasing. Returns 0 for fewer than 2
// points.
func TrendSlope(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	gap := float64(len(xs) - 1)
	return (xs[len(xs)-1] - xs[0]) / gap
}

// MeanAbsDeviation returns the mean absolute deviation of xs from its own
// mean. Returns 0 for fewer than 2 points.
func MeanAbsDeviation(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := Mean(xs)
	var sum float64
	for _, x := range xs {
		sum += math.Abs(x - mean)
	}
	return sum / float64(len(xs))
}

// MeanAbsSuccessiveDiff returns the mean absolute difference between
// consecutive points in xs, a dispersion measure that tracks sample-to-
// sample variation rather than spread around the mean. Returns 0 for
// fewer than 2 points.
func MeanAbsSuccessiveDiff(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(xs); i++ {
		sum += math.Abs(xs[i] - xs[i-1])
	}
	return sum / float64(len(xs)-1)
}

// Clamp constrains v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
