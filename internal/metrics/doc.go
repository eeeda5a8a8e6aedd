// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

/*
Package metrics provides Prometheus instrumentation for Prestream.

Collectors are registered at package load via promauto and exposed at
/metrics in Prometheus text format.

Available metric families:

Analysis:
  - prestream_analysis_cycles_total: analysis passes (counter)
    Labels: category (audio, video, network)
  - prestream_analysis_duration_seconds: pass duration (histogram)
  - prestream_quality_score: latest 0-100 score (gauge)
    Labels: category (audio, video, network, overall)
  - prestream_status_changes_total: status transitions (counter)
    Labels: category, status
  - prestream_network_bitrate_kbps, prestream_network_packet_loss_percent,
    prestream_network_jitter_ms: latest raw transport readings (gauges)

Capture:
  - prestream_capture_errors_total: source read failures (counter)
    Labels: source (audio, video, transport)
  - prestream_capture_breaker_state: breaker state per source (gauge)

API and WebSocket:
  - prestream_api_requests_total, prestream_api_request_duration_seconds
  - prestream_websocket_connections, prestream_websocket_messages_sent_total,
    prestream_websocket_clients_dropped_total

Supervision:
  - prestream_service_restarts_total: supervised restarts (counter)
    Labels: service

Use the Record* helpers rather than touching collectors directly so label
sets stay consistent across call sites.
*/
package metrics
