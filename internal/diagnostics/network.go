// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package diagnostics

import (
	"math"
	"time"

	"github.com/prestream/prestream/internal/stats"
)

// NetworkConfig holds the network analyzer thresholds, normalization
// scales, and score weights. Trend and stability math is defined at the
// default 500 ms poll cadence; changing the cadence without rescaling the
// window sizes makes the absolute stability thresholds meaningless.
type NetworkConfig struct {
	// MetricWindowSize is the rolling-window length for bitrate and
	// packet-loss samples. Default: 10 (~5 s at 500 ms polls)
	MetricWindowSize int `koanf:"metric_window_size" json:"metric_window_size" validate:"gte=2"`

	// LatencyWindowSize is the rolling-window length for round-trip time
	// samples, shared by the jitter and RTT stability measures.
	// Default: 20
	LatencyWindowSize int `koanf:"latency_window_size" json:"latency_window_size" validate:"gte=2"`

	// LossTrendSamples is how many recent loss samples feed the one-sided
	// loss slope. Default: 3
	LossTrendSamples int `koanf:"loss_trend_samples" json:"loss_trend_samples" validate:"gte=2"`

	// Status tier thresholds. Critical < Unstable < Moderate < Good by
	// construction: a single metric crossing the worst tier dominates the
	// status regardless of the composite score.
	CriticalBitrateKbps float64 `koanf:"critical_bitrate_kbps" json:"critical_bitrate_kbps" validate:"gte=0"` // default 250
	CriticalLossPercent float64 `koanf:"critical_loss_percent" json:"critical_loss_percent" validate:"gte=0"` // default 2
	CriticalLatencyMs   float64 `koanf:"critical_latency_ms" json:"critical_latency_ms" validate:"gte=0"`     // default 300
	CriticalFPS         float64 `koanf:"critical_fps" json:"critical_fps" validate:"gte=0"`                   // default 20
	CriticalDropRatio   float64 `koanf:"critical_drop_ratio" json:"critical_drop_ratio" validate:"gte=0,lte=1"` // default 0.10

	UnstableBitrateKbps  float64 `koanf:"unstable_bitrate_kbps" json:"unstable_bitrate_kbps" validate:"gte=0"`   // default 500
	UnstableLossPercent  float64 `koanf:"unstable_loss_percent" json:"unstable_loss_percent" validate:"gte=0"`   // default 1
	UnstableLatencyMs    float64 `koanf:"unstable_latency_ms" json:"unstable_latency_ms" validate:"gte=0"`       // default 200
	UnstableJitterMs     float64 `koanf:"unstable_jitter_ms" json:"unstable_jitter_ms" validate:"gte=0"`         // default 30
	UnstableBitrateState float64 `koanf:"unstable_bitrate_stability" json:"unstable_bitrate_stability" validate:"gte=0"` // default 200
	UnstableLossSlope    float64 `koanf:"unstable_loss_slope" json:"unstable_loss_slope" validate:"gte=0"`       // default 1.0

	ModerateBitrateKbps float64 `koanf:"moderate_bitrate_kbps" json:"moderate_bitrate_kbps" validate:"gte=0"` // default 1000
	ModerateLatencyMs   float64 `koanf:"moderate_latency_ms" json:"moderate_latency_ms" validate:"gte=0"`     // default 100
	ModerateFPS         float64 `koanf:"moderate_fps" json:"moderate_fps" validate:"gte=0"`                   // default 24

	// Normalization ceilings for the current-conditions component.
	TargetBitrateKbps float64 `koanf:"target_bitrate_kbps" json:"target_bitrate_kbps" validate:"gt=0"` // default 1500
	LossScalePercent  float64 `koanf:"loss_scale_percent" json:"loss_scale_percent" validate:"gt=0"`   // default 5
	LatencyScaleMs    float64 `koanf:"latency_scale_ms" json:"latency_scale_ms" validate:"gt=0"`       // default 500
	TargetFPS         float64 `koanf:"target_fps" json:"target_fps" validate:"gt=0"`                   // default 30

	// Normalization scales for the stability component (raw dispersion at
	// or beyond the scale maps to 0).
	BitrateStabilityScale float64 `koanf:"bitrate_stability_scale" json:"bitrate_stability_scale" validate:"gt=0"` // default 500
	LossSlopeScale        float64 `koanf:"loss_slope_scale" json:"loss_slope_scale" validate:"gt=0"`               // default 2
	JitterStabilityScale  float64 `koanf:"jitter_stability_scale" json:"jitter_stability_scale" validate:"gt=0"`   // default 100
	RTTStabilityScale     float64 `koanf:"rtt_stability_scale" json:"rtt_stability_scale" validate:"gt=0"`         // default 200

	// CurrentWeight and StabilityWeight split the final score. The 60/40
	// stability-weighted split is the key design decision: one good
	// instantaneous reading must not mask a pattern of jitter, and one bad
	// reading must not override an otherwise stable trend.
	CurrentWeight   float64 `koanf:"current_weight" json:"current_weight" validate:"gte=0,lte=1"`     // default 0.4
	StabilityWeight float64 `koanf:"stability_weight" json:"stability_weight" validate:"gte=0,lte=1"` // default 0.6

	// Stability sub-weights (bitrate/loss/jitter/RTT).
	BitrateStabilityWeight float64 `koanf:"bitrate_stability_weight" json:"bitrate_stability_weight" validate:"gte=0,lte=1"` // default 0.35
	LossStabilityWeight    float64 `koanf:"loss_stability_weight" json:"loss_stability_weight" validate:"gte=0,lte=1"`       // default 0.30
	JitterStabilityWeight  float64 `koanf:"jitter_stability_weight" json:"jitter_stability_weight" validate:"gte=0,lte=1"`   // default 0.20
	RTTStabilityWeight     float64 `koanf:"rtt_stability_weight" json:"rtt_stability_weight" validate:"gte=0,lte=1"`         // default 0.15

	// DropPenaltyThreshold is the frame-drop ratio above which the excess
	// is subtracted from the score, point for percentage point.
	// Default: 0.10
	DropPenaltyThreshold float64 `koanf:"drop_penalty_threshold" json:"drop_penalty_threshold" validate:"gte=0,lte=1"`
}

// DefaultNetworkConfig returns the documented default thresholds.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		MetricWindowSize:  10,
		LatencyWindowSize: 20,
		LossTrendSamples:  3,

		CriticalBitrateKbps: 250,
		CriticalLossPercent: 2,
		CriticalLatencyMs:   300,
		CriticalFPS:         20,
		CriticalDropRatio:   0.10,

		UnstableBitrateKbps:  500,
		UnstableLossPercent:  1,
		UnstableLatencyMs:    200,
		UnstableJitterMs:     30,
		UnstableBitrateState: 200,
		UnstableLossSlope:    1.0,

		ModerateBitrateKbps: 1000,
		ModerateLatencyMs:   100,
		ModerateFPS:         24,

		TargetBitrateKbps: 1500,
		LossScalePercent:  5,
		LatencyScaleMs:    500,
		TargetFPS:         30,

		BitrateStabilityScale: 500,
		LossSlopeScale:        2,
		JitterStabilityScale:  100,
		RTTStabilityScale:     200,

		CurrentWeight:   0.4,
		StabilityWeight: 0.6,

		BitrateStabilityWeight: 0.35,
		LossStabilityWeight:    0.30,
		JitterStabilityWeight:  0.20,
		RTTStabilityWeight:     0.15,

		DropPenaltyThreshold: 0.10,
	}
}

// TransportSample is one snapshot of the outbound transport counters, as
// reported by the capture collaborator once per poll. Byte and packet
// counters are cumulative for the transport-pair's lifetime; RTT and FPS
// are instantaneous.
type TransportSample struct {
	Timestamp       time.Time `json:"timestamp"`
	BytesSent       uint64    `json:"bytes_sent"`
	PacketsSent     uint64    `json:"packets_sent"`
	PacketsLost     uint64    `json:"packets_lost"`
	RTTMillis       float64   `json:"rtt_ms"`
	FramesPerSecond float64   `json:"fps"`
	FramesSent      uint64    `json:"frames_sent"`
	FramesDropped   uint64    `json:"frames_dropped"`
}

// NetworkAnalysis is the result of one network poll. The *Stability
// fields are raw dispersion/trend measures (lower = more stable), not
// 0-100 scores; StabilityScore is the weighted 0-100 composite.
type NetworkAnalysis struct {
	BitrateKbps      float64       `json:"bitrate_kbps"`
	PacketLoss       float64       `json:"packet_loss"` // [0,100]
	JitterMs         float64       `json:"jitter_ms"`
	LatencyMs        float64       `json:"latency_ms"`
	FramesPerSecond  float64       `json:"fps"`
	FrameDropRatio   float64       `json:"frame_drop_ratio"` // [0,1]
	BitrateStability float64       `json:"bitrate_stability"`
	LossStability    float64       `json:"loss_stability"`
	JitterStability  float64       `json:"jitter_stability"`
	RTTStability     float64       `json:"rtt_stability"`
	StabilityScore   float64       `json:"stability_score"` // [0,100]
	Status           NetworkStatus `json:"status"`
}

// NetworkAnalyzer converts periodic transport counter snapshots into
// bitrate, loss, jitter, and a weighted stability score. Unlike the audio
// and video analyzers it is intrinsically stateful across polls: bitrate
// needs the previous byte count and timestamp. One instance per monitored
// stream.
type NetworkAnalyzer struct {
	cfg NetworkConfig

	prevBytes uint64
	prevTime  time.Time
	primed    bool

	bitrateWin *stats.Window
	lossWin    *stats.Window
	latencyWin *stats.Window
}

// NewNetworkAnalyzer creates an analyzer with the given thresholds.
func NewNetworkAnalyzer(cfg NetworkConfig) *NetworkAnalyzer {
	def := DefaultNetworkConfig()
	if cfg.MetricWindowSize < 2 {
		cfg.MetricWindowSize = def.MetricWindowSize
	}
	if cfg.LatencyWindowSize < 2 {
		cfg.LatencyWindowSize = def.LatencyWindowSize
	}
	if cfg.LossTrendSamples < 2 {
		cfg.LossTrendSamples = def.LossTrendSamples
	}
	return &NetworkAnalyzer{
		cfg:        cfg,
		bitrateWin: stats.NewWindow(cfg.MetricWindowSize),
		lossWin:    stats.NewWindow(cfg.MetricWindowSize),
		latencyWin: stats.NewWindow(cfg.LatencyWindowSize),
	}
}

// Push ingests one counter snapshot and returns a complete analysis.
// Degenerate input (zero elapsed time, zero packets sent, counter resets)
// yields zeroed derived metrics rather than NaN or an error.
func (n *NetworkAnalyzer) Push(s TransportSample) NetworkAnalysis {
	bitrate := n.bitrate(s)

	var loss float64
	if s.PacketsSent > 0 {
		loss = float64(s.PacketsLost) / float64(s.PacketsSent) * 100.0
	}

	var dropRatio float64
	if total := s.FramesSent + s.FramesDropped; total > 0 {
		dropRatio = float64(s.FramesDropped) / float64(total)
	}

	n.bitrateWin.Push(bitrate)
	n.lossWin.Push(loss)
	n.latencyWin.Push(s.RTTMillis)

	latencyVals := n.latencyWin.Values()

	bitrateStability := stats.StdDev(n.bitrateWin.Values())

	// Only increasing loss counts as instability; recovering loss is not
	// penalized.
	lossStability := math.Max(stats.TrendSlope(n.lossWin.Tail(n.cfg.LossTrendSamples)), 0)

	// jitterStability and rttStability are deliberately the same measure
	// over the same latency window; the reference behavior keeps both
	// named outputs and the weighted score consumes them separately.
	jitterStability := stats.StdDev(latencyVals)
	rttStability := jitterStability

	jitter := stats.MeanAbsSuccessiveDiff(latencyVals)

	score := n.stabilityScore(bitrate, loss, s.RTTMillis, s.FramesPerSecond,
		bitrateStability, lossStability, jitterStability, rttStability, dropRatio)

	return NetworkAnalysis{
		BitrateKbps:      bitrate,
		PacketLoss:       loss,
		JitterMs:         jitter,
		LatencyMs:        s.RTTMillis,
		FramesPerSecond:  s.FramesPerSecond,
		FrameDropRatio:   dropRatio,
		BitrateStability: bitrateStability,
		LossStability:    lossStability,
		JitterStability:  jitterStability,
		RTTStability:     rttStability,
		StabilityScore:   score,
		Status: n.resolveStatus(bitrate, loss, s.RTTMillis, jitter,
			s.FramesPerSecond, dropRatio, bitrateStability, lossStability),
	}
}

// bitrate derives kbps from the byte-counter delta over the time delta.
// The first poll, a zero time delta, and a counter reset all yield 0.
func (n *NetworkAnalyzer) bitrate(s TransportSample) float64 {
	defer func() {
		n.prevBytes = s.BytesSent
		n.prevTime = s.Timestamp
		n.primed = true
	}()

	if !n.primed {
		return 0
	}
	dt := s.Timestamp.Sub(n.prevTime).Seconds()
	if dt <= 0 {
		return 0
	}
	if s.BytesSent < n.prevBytes {
		// Transport restarted; treat as a fresh baseline.
		return 0
	}
	return float64(s.BytesSent-n.prevBytes) * 8.0 / dt / 1000.0
}

// stabilityScore is the central weighted combination: 40% instantaneous
// conditions, 60% historical stability, minus a frame-drop penalty, in
// [0, 100].
func (n *NetworkAnalyzer) stabilityScore(bitrate, loss, rtt, fps,
	bitrateStability, lossStability, jitterStability, rttStability, dropRatio float64) float64 {

	current := 0.25*math.Min(bitrate/n.cfg.TargetBitrateKbps, 1) +
		0.25*math.Max(1-loss/n.cfg.LossScalePercent, 0) +
		0.25*math.Max(1-rtt/n.cfg.LatencyScaleMs, 0) +
		0.25*math.Min(fps/n.cfg.TargetFPS, 1)

	stability := n.cfg.BitrateStabilityWeight*math.Max(1-bitrateStability/n.cfg.BitrateStabilityScale, 0) +
		n.cfg.LossStabilityWeight*math.Max(1-lossStability/n.cfg.LossSlopeScale, 0) +
		n.cfg.JitterStabilityWeight*math.Max(1-jitterStability/n.cfg.JitterStabilityScale, 0) +
		n.cfg.RTTStabilityWeight*math.Max(1-rttStability/n.cfg.RTTStabilityScale, 0)

	score := (n.cfg.CurrentWeight*current + n.cfg.StabilityWeight*stability) * 100.0

	if dropRatio > n.cfg.DropPenaltyThreshold {
		score -= (dropRatio - n.cfg.DropPenaltyThreshold) * 100.0
	}

	return math.Round(stats.Clamp(score, 0, 100))
}

// resolveStatus applies the tiered priority chain; first match wins.
func (n *NetworkAnalyzer) resolveStatus(bitrate, loss, rtt, jitter, fps,
	dropRatio, bitrateStability, lossStability float64) NetworkStatus {

	switch {
	case bitrate < n.cfg.CriticalBitrateKbps ||
		loss > n.cfg.CriticalLossPercent ||
		rtt > n.cfg.CriticalLatencyMs ||
		fps < n.cfg.CriticalFPS ||
		dropRatio > n.cfg.CriticalDropRatio:
		return NetworkCritical

	case bitrate < n.cfg.UnstableBitrateKbps ||
		loss > n.cfg.UnstableLossPercent ||
		rtt > n.cfg.UnstableLatencyMs ||
		jitter > n.cfg.UnstableJitterMs ||
		bitrateStability > n.cfg.UnstableBitrateState ||
		lossStability > n.cfg.UnstableLossSlope:
		return NetworkUnstable

	case bitrate < n.cfg.ModerateBitrateKbps ||
		rtt > n.cfg.ModerateLatencyMs ||
		fps < n.cfg.ModerateFPS:
		return NetworkModerate

	default:
		return NetworkGood
	}
}

// Reset drops all rolling state, e.g. when the monitored transport-pair
// changes.
func (n *NetworkAnalyzer) Reset() {
	n.primed = false
	n.prevBytes = 0
	n.prevTime = time.Time{}
	n.bitrateWin.Clear()
	n.lossWin.Clear()
	n.latencyWin.Clear()
}

// Config returns the analyzer's thresholds.
func (n *NetworkAnalyzer) Config() NetworkConfig {
	return n.cfg
}
