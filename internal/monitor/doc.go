// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

// Package monitor runs the periodic analysis loop: audio and video on a
// one-second cadence, transport polling at 500 ms, with a composite
// snapshot rebuilt after every network poll.
//
// The loop is single-goroutine by design; the analyzers keep rolling
// state and are not safe for concurrent use, and the cadences are slow
// enough that sequential processing never falls behind. Readers get the
// latest snapshot through a mutex-guarded accessor, and snapshot fan-out
// to WebSocket clients is throttled with a token-bucket limiter so a
// fast poll cadence cannot flood dashboards.
package monitor
