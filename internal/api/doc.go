// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

// Package api provides the HTTP surface: health probes, diagnostic
// snapshot endpoints, the WebSocket upgrade, and Prometheus metrics,
// routed with Chi and hardened with the Chi middleware ecosystem
// (CORS, rate limiting, panic recovery, request IDs).
package api
