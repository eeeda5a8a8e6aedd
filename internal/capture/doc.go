// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

// Package capture defines the media and transport sources the monitor
// polls, plus the resilience wrapper that keeps one flaky source from
// stalling the analysis loop.
//
// Three source interfaces mirror the three analyzers: AudioSource yields
// unsigned 8-bit PCM buffers, FrameSource yields RGBA frames (reduced to
// BT.709 luminance grids before analysis), and StatsSource yields
// cumulative transport counters. The synthetic implementations generate
// deterministic signals for development and tests; production builds
// plug in real pipelines behind the same interfaces.
//
// Breaker wraps any source in a circuit breaker: after a run of
// failures the source is bypassed and probed on a timeout, and the
// analyzers simply skip cycles while it is open.
package capture
