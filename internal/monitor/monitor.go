// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package monitor

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/prestream/prestream/internal/capture"
	"github.com/prestream/prestream/internal/config"
	"github.com/prestream/prestream/internal/diagnostics"
	"github.com/prestream/prestream/internal/logging"
	"github.com/prestream/prestream/internal/metrics"
)

// Broadcaster receives realtime updates from the monitor. Satisfied by
// the websocket hub.
type Broadcaster interface {
	BroadcastSnapshot(diagnostics.Snapshot)
	BroadcastStatusChange(category, previous, current string)
}

// Thresholds bundles the active analyzer configurations for read-only
// exposure through the API.
type Thresholds struct {
	Audio     diagnostics.AudioConfig     `json:"audio"`
	Video     diagnostics.VideoConfig     `json:"video"`
	Network   diagnostics.NetworkConfig   `json:"network"`
	Composite diagnostics.CompositeConfig `json:"composite"`
}

// Monitor owns the three analyzers and drives them from capture
// sources on their configured cadences.
type Monitor struct {
	cfg config.MonitorConfig

	audio   *diagnostics.AudioAnalyzer
	video   *diagnostics.VideoAnalyzer
	network *diagnostics.NetworkAnalyzer
	scorer  *diagnostics.CompositeScorer

	audioSrc capture.AudioSource
	videoSrc capture.FrameSource
	statsSrc capture.StatsSource

	gridSize  int
	hub       Broadcaster
	limiter   *rate.Limiter
	composite diagnostics.CompositeConfig

	mu             sync.RWMutex
	latestAudio    diagnostics.AudioAnalysis
	latestVideo    diagnostics.VideoAnalysis
	latestNetwork  diagnostics.NetworkAnalysis
	latestSnapshot diagnostics.Snapshot
	hasSnapshot    bool
	prevStatus     map[string]string
}

// Options collects the monitor's collaborators.
type Options struct {
	Config    config.MonitorConfig
	Audio     diagnostics.AudioConfig
	Video     diagnostics.VideoConfig
	Network   diagnostics.NetworkConfig
	Composite diagnostics.CompositeConfig

	AudioSource capture.AudioSource
	VideoSource capture.FrameSource
	StatsSource capture.StatsSource

	Broadcaster Broadcaster
}

// New creates a monitor; call RunWithContext to start the loop.
func New(opts Options) *Monitor {
	return &Monitor{
		cfg:        opts.Config,
		audio:      diagnostics.NewAudioAnalyzer(opts.Audio),
		video:      diagnostics.NewVideoAnalyzer(opts.Video),
		network:    diagnostics.NewNetworkAnalyzer(opts.Network),
		scorer:     diagnostics.NewCompositeScorer(opts.Composite, opts.Audio),
		audioSrc:   opts.AudioSource,
		videoSrc:   opts.VideoSource,
		statsSrc:   opts.StatsSource,
		gridSize:   opts.Video.GridSize,
		hub:        opts.Broadcaster,
		limiter:    rate.NewLimiter(rate.Limit(opts.Config.BroadcastPerSecond), 1),
		composite:  opts.Composite,
		prevStatus: map[string]string{},
	}
}

// RunWithContext drives the analysis tickers until ctx is canceled.
// Designed for suture supervision: all state survives in the analyzers,
// so a restart resumes with warm windows.
func (m *Monitor) RunWithContext(ctx context.Context) error {
	log := logging.WithComponent("monitor")
	log.Info().
		Dur("audio_interval", m.cfg.AudioInterval).
		Dur("video_interval", m.cfg.VideoInterval).
		Dur("network_interval", m.cfg.NetworkInterval).
		Msg("starting analysis loop")

	audioTick := time.NewTicker(m.cfg.AudioInterval)
	videoTick := time.NewTicker(m.cfg.VideoInterval)
	networkTick := time.NewTicker(m.cfg.NetworkInterval)
	defer audioTick.Stop()
	defer videoTick.Stop()
	defer networkTick.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("analysis loop stopped")
			return ctx.Err()
		case <-audioTick.C:
			m.audioCycle(ctx)
		case <-videoTick.C:
			m.videoCycle(ctx)
		case <-networkTick.C:
			m.networkCycle(ctx)
		}
	}
}

func (m *Monitor) audioCycle(ctx context.Context) {
	buf, err := m.audioSrc.ReadSamples(ctx)
	if err != nil {
		log := logging.WithComponent("monitor")
		log.Debug().Err(err).Msg("audio read skipped")
		return
	}

	start := time.Now()
	analysis := m.audio.Analyze(buf)
	metrics.RecordAnalysis("audio", time.Since(start))

	m.mu.Lock()
	m.latestAudio = analysis
	m.mu.Unlock()

	m.noteStatus("audio", string(analysis.Status))
}

func (m *Monitor) videoCycle(ctx context.Context) {
	frame, err := m.videoSrc.ReadFrame(ctx)
	if err != nil {
		log := logging.WithComponent("monitor")
		log.Debug().Err(err).Msg("video read skipped")
		return
	}

	start := time.Now()
	grid := capture.LuminanceGrid(frame, m.gridSize)
	analysis := m.video.Analyze(grid)
	metrics.RecordAnalysis("video", time.Since(start))

	m.mu.Lock()
	m.latestVideo = analysis
	m.mu.Unlock()

	m.noteStatus("video", string(analysis.Status))
}

// networkCycle polls the transport and rebuilds the composite snapshot;
// the network poll is the fastest cadence, so every snapshot carries
// fresh transport data and the latest audio/video results.
func (m *Monitor) networkCycle(ctx context.Context) {
	sample, err := m.statsSrc.ReadStats(ctx)
	if err != nil {
		log := logging.WithComponent("monitor")
		log.Debug().Err(err).Msg("transport poll skipped")
		return
	}

	start := time.Now()
	analysis := m.network.Push(sample)
	metrics.RecordAnalysis("network", time.Since(start))
	metrics.RecordNetworkSample(analysis.BitrateKbps, analysis.PacketLoss, analysis.JitterMs)

	m.mu.Lock()
	m.latestNetwork = analysis
	audio, video := m.latestAudio, m.latestVideo
	m.mu.Unlock()

	m.noteStatus("network", string(analysis.Status))

	snapshot := m.scorer.Compose(audio, video, analysis, time.Now().UTC())

	m.mu.Lock()
	m.latestSnapshot = snapshot
	m.hasSnapshot = true
	m.mu.Unlock()

	m.noteStatus("overall", string(snapshot.OverallStatus))
	metrics.RecordQualityScores(
		snapshot.QualityScore.AudioScore,
		snapshot.QualityScore.VideoScore,
		snapshot.QualityScore.NetworkScore,
		snapshot.QualityScore.OverallQuality,
	)

	if m.hub != nil && m.limiter.Allow() {
		m.hub.BroadcastSnapshot(snapshot)
	}
}

// noteStatus tracks per-category status transitions, counting them in
// metrics and notifying the broadcaster. The first observation of a
// category is not a transition.
func (m *Monitor) noteStatus(category, current string) {
	m.mu.Lock()
	previous, seen := m.prevStatus[category]
	m.prevStatus[category] = current
	m.mu.Unlock()

	if !seen || previous == current {
		return
	}

	metrics.RecordStatusChange(category, current)
	log := logging.WithComponent("monitor")
	log.Info().
		Str("category", category).
		Str("previous", previous).
		Str("current", current).
		Msg("status change")

	if m.hub != nil {
		m.hub.BroadcastStatusChange(category, previous, current)
	}
}

// Latest returns the most recent composite snapshot. The second return
// is false until the first network poll completes.
func (m *Monitor) Latest() (diagnostics.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latestSnapshot, m.hasSnapshot
}

// Snapshot composes a fresh snapshot from the latest per-category
// analyses on demand, bypassing the poll cadence.
func (m *Monitor) Snapshot() diagnostics.Snapshot {
	m.mu.RLock()
	audio, video, network := m.latestAudio, m.latestVideo, m.latestNetwork
	m.mu.RUnlock()
	return m.scorer.Compose(audio, video, network, time.Now().UTC())
}

// Thresholds returns the active analyzer configurations.
func (m *Monitor) Thresholds() Thresholds {
	return Thresholds{
		Audio:     m.audio.Config(),
		Video:     m.video.Config(),
		Network:   m.network.Config(),
		Composite: m.composite,
	}
}
