// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

/*
Package stats provides the numeric primitives shared by the quality
analyzers: population statistics over small sample sets and a
fixed-capacity rolling window.

Every function is total. Windows with fewer than two points yield 0
rather than NaN so that analyzers never have to special-case a cold
start — a freshly created analyzer produces neutral, structurally valid
output from its very first sample.

# Conventions

  - StdDev is the population standard deviation (divide by N, not N-1).
    The windows here are the entire population of interest, not a sample
    drawn from one.
  - Percentile uses the nearest-rank method on a sorted copy; inputs are
    never mutated.
  - TrendSlope is a cheap first/last difference over the index gap, not a
    least-squares fit. At 10-20 points per window a regression buys
    nothing over this.

All functions are side-effect free and safe for concurrent use. Window is
not; each analyzer owns its windows and is confined to a single caller.
*/
package stats
