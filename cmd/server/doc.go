// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

// Package main is the entry point for the Prestream server.
//
// Prestream analyzes a stream before it goes live: audio level and
// clipping checks, video exposure and lighting checks, and transport
// stability scoring, composed into a single 0-100 readiness score.
// Results are served over a REST API and pushed to dashboards over
// WebSocket.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, YAML file,
//     environment variables)
//  2. Capture sources: synthetic generators or a real pipeline, each
//     wrapped in a circuit breaker
//  3. WebSocket hub: realtime fan-out to connected dashboards
//  4. Monitor: the periodic analysis loop
//  5. HTTP server: REST API, /ws upgrade, and /metrics
//
// Everything runs under a Suture supervisor tree with three layers
// (diagnostics, messaging, api) for failure isolation.
//
// # Configuration
//
// Highest priority wins:
//   - Environment variables (PRESTREAM_HTTP_PORT, PRESTREAM_LOG_LEVEL, ...)
//   - Config file (prestream.yaml, or PRESTREAM_CONFIG)
//   - Built-in defaults
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server stops
// accepting connections, in-flight requests drain within the shutdown
// timeout, and the monitor and hub stop with their contexts.
//
// # Example Usage
//
// Synthetic mode (default, no capture hardware needed):
//
//	./prestream
//
// With a config file:
//
//	PRESTREAM_CONFIG=/etc/prestream/prestream.yaml ./prestream
package main
