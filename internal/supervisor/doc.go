// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

// Package supervisor provides Suture-based process supervision.
//
// The tree has three layers for failure isolation:
//   - diagnostics: the analysis monitor loop
//   - messaging: the WebSocket hub
//   - api: the HTTP server
//
// A crash in one layer is restarted by its own supervisor without
// touching the others; the API keeps serving the last snapshot while
// the monitor restarts. Supervisor events are logged through
// sutureslog via the zerolog slog adapter, and restarts are counted in
// Prometheus.
package supervisor
