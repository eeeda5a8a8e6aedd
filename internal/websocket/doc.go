// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

// Package websocket provides realtime fan-out of diagnostic snapshots
// and status transitions to connected dashboards.
//
// A single Hub owns the client set and runs under supervision via
// RunWithContext. The monitor pushes diagnostic_snapshot messages on
// its broadcast cadence and status_change messages on transitions;
// clients that cannot drain their send buffer are dropped rather than
// allowed to backpressure the loop. Clients may send application-level
// ping messages and receive pong replies; the server additionally runs
// the protocol ping/pong heartbeat to detect dead peers.
package websocket
