// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analyzer metrics.
	AnalysisCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prestream_analysis_cycles_total",
			Help: "Total number of analysis passes per category",
		},
		[]string{"category"}, // "audio", "video", "network"
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prestream_analysis_duration_seconds",
			Help:    "Duration of one analysis pass in seconds",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		},
		[]string{"category"},
	)

	QualityScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "prestream_quality_score",
			Help: "Latest 0-100 quality score per category and overall",
		},
		[]string{"category"}, // "audio", "video", "network", "overall"
	)

	StatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prestream_status_changes_total",
			Help: "Total number of status transitions per category",
		},
		[]string{"category", "status"},
	)

	NetworkBitrateKbps = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prestream_network_bitrate_kbps",
			Help: "Latest measured outbound bitrate in kbps",
		},
	)

	NetworkPacketLoss = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prestream_network_packet_loss_percent",
			Help: "Latest cumulative packet loss percentage",
		},
	)

	NetworkJitterMs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prestream_network_jitter_ms",
			Help: "Latest round-trip jitter in milliseconds",
		},
	)

	// Capture metrics.
	CaptureErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prestream_capture_errors_total",
			Help: "Total number of capture source read failures",
		},
		[]string{"source"}, // "audio", "video", "transport"
	)

	CaptureBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "prestream_capture_breaker_state",
			Help: "Circuit breaker state per capture source (0=closed, 1=half-open, 2=open)",
		},
		[]string{"source"},
	)

	// API metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prestream_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prestream_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	// WebSocket metrics.
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prestream_websocket_connections",
			Help: "Current number of connected WebSocket clients",
		},
	)

	WebSocketMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prestream_websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
		[]string{"type"}, // "diagnostic_snapshot", "status_change", "pong"
	)

	WebSocketClientsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prestream_websocket_clients_dropped_total",
			Help: "Total number of clients dropped for full send buffers",
		},
	)

	// Supervisor metrics.
	ServiceRestarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prestream_service_restarts_total",
			Help: "Total number of supervised service restarts",
		},
		[]string{"service"},
	)
)

// RecordAnalysis observes one analysis pass.
func RecordAnalysis(category string, duration time.Duration) {
	AnalysisCyclesTotal.WithLabelValues(category).Inc()
	AnalysisDuration.WithLabelValues(category).Observe(duration.Seconds())
}

// RecordStatusChange counts a status transition.
func RecordStatusChange(category, status string) {
	StatusChangesTotal.WithLabelValues(category, status).Inc()
}

// RecordQualityScores publishes the latest per-category scores.
func RecordQualityScores(audio, video, network, overall float64) {
	QualityScore.WithLabelValues("audio").Set(audio)
	QualityScore.WithLabelValues("video").Set(video)
	QualityScore.WithLabelValues("network").Set(network)
	QualityScore.WithLabelValues("overall").Set(overall)
}

// RecordNetworkSample publishes the latest raw transport measurements.
func RecordNetworkSample(bitrateKbps, lossPercent, jitterMs float64) {
	NetworkBitrateKbps.Set(bitrateKbps)
	NetworkPacketLoss.Set(lossPercent)
	NetworkJitterMs.Set(jitterMs)
}

// RecordAPIRequest observes one completed HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
