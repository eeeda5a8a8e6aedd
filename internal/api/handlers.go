// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package api

import (
	"net/http"
	"time"

	"github.com/prestream/prestream/internal/diagnostics"
	"github.com/prestream/prestream/internal/models"
	"github.com/prestream/prestream/internal/monitor"
)

// DiagnosticsProvider is the read side of the monitor. Satisfied by
// *monitor.Monitor.
type DiagnosticsProvider interface {
	Latest() (diagnostics.Snapshot, bool)
	Snapshot() diagnostics.Snapshot
	Thresholds() monitor.Thresholds
}

// ClientCounter reports connected WebSocket clients. Satisfied by
// *websocket.Hub.
type ClientCounter interface {
	GetClientCount() int
}

// Handler implements the HTTP endpoints.
type Handler struct {
	monitor   DiagnosticsProvider
	clients   ClientCounter
	mode      string
	version   string
	startTime time.Time
}

// NewHandler creates the endpoint handler. Synthetic selects the mode
// string reported by the health endpoint.
func NewHandler(provider DiagnosticsProvider, clients ClientCounter, synthetic bool, version string) *Handler {
	mode := "live"
	if synthetic {
		mode = "synthetic"
	}
	if version == "" {
		version = "dev"
	}
	return &Handler{
		monitor:   provider,
		clients:   clients,
		mode:      mode,
		version:   version,
		startTime: time.Now(),
	}
}

// Health reports overall service health: healthy once the monitor has
// produced its first composite snapshot, starting before that.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	_, ready := h.monitor.Latest()

	status := "healthy"
	if !ready {
		status = "starting"
	}

	clients := 0
	if h.clients != nil {
		clients = h.clients.GetClientCount()
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:           status,
			Mode:             h.mode,
			Version:          h.version,
			MonitorReady:     ready,
			WebSocketClients: clients,
			Uptime:           time.Since(h.startTime).Seconds(),
		},
		Metadata: newMetadata(r),
	})
}

// HealthLive is the liveness probe: 200 whenever the process is up,
// regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: newMetadata(r),
	})
}

// HealthReady is the readiness probe: 200 only once the first composite
// snapshot exists, 503 before that.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	_, ready := h.monitor.Latest()

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"ready_to_serve": ready,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
		Metadata: newMetadata(r),
	})
}

// DiagnosticsSnapshot returns the latest full composite snapshot.
func (h *Handler) DiagnosticsSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.monitor.Latest()
	if !ok {
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY",
			"No diagnostic snapshot yet; the monitor is still warming up", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     snapshot,
		Metadata: newMetadata(r),
	})
}

// qualitySummary is the condensed payload for dashboards that only
// need the scores.
type qualitySummary struct {
	QualityScore  diagnostics.QualityScore  `json:"quality_score"`
	OverallStatus diagnostics.OverallStatus `json:"overall_status"`
	Timestamp     time.Time                 `json:"timestamp"`
}

// DiagnosticsQuality returns just the composite scores and overall
// status from the latest snapshot.
func (h *Handler) DiagnosticsQuality(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.monitor.Latest()
	if !ok {
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY",
			"No diagnostic snapshot yet; the monitor is still warming up", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: qualitySummary{
			QualityScore:  snapshot.QualityScore,
			OverallStatus: snapshot.OverallStatus,
			Timestamp:     snapshot.Timestamp,
		},
		Metadata: newMetadata(r),
	})
}

// DiagnosticsThresholds returns the active analyzer configurations so
// dashboards can render threshold lines without hardcoding them.
func (h *Handler) DiagnosticsThresholds(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     h.monitor.Thresholds(),
		Metadata: newMetadata(r),
	})
}
