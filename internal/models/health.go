// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package models

// HealthStatus is the payload of GET /api/v1/health.
//
// Status is "healthy" once the first composite snapshot exists and
// "starting" before that; the liveness probe never depends on it.
type HealthStatus struct {
	Status           string  `json:"status"`
	Mode             string  `json:"mode"`
	Version          string  `json:"version"`
	MonitorReady     bool    `json:"monitor_ready"`
	WebSocketClients int     `json:"websocket_clients"`
	Uptime           float64 `json:"uptime"`
}
