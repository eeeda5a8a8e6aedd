// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package diagnostics

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/prestream/prestream/internal/stats"
)

// CompositeConfig holds the category weights for the overall quality
// score. Video and audio dominate because they are what the audience
// experiences directly; the network score already folds in its own
// stability weighting.
type CompositeConfig struct {
	AudioWeight   float64 `koanf:"audio_weight" json:"audio_weight" validate:"gte=0,lte=1"`     // default 0.4
	VideoWeight   float64 `koanf:"video_weight" json:"video_weight" validate:"gte=0,lte=1"`     // default 0.4
	NetworkWeight float64 `koanf:"network_weight" json:"network_weight" validate:"gte=0,lte=1"` // default 0.2
}

// DefaultCompositeConfig returns the documented default weights.
func DefaultCompositeConfig() CompositeConfig {
	return CompositeConfig{
		AudioWeight:   0.4,
		VideoWeight:   0.4,
		NetworkWeight: 0.2,
	}
}

// QualityScore is the per-category and overall 0-100 readiness score.
type QualityScore struct {
	AudioScore     float64 `json:"audio_score"`
	VideoScore     float64 `json:"video_score"`
	NetworkScore   float64 `json:"network_score"`
	OverallQuality float64 `json:"overall_quality"`
}

// Snapshot is one full analysis cycle: the three analyzer outputs, the
// composite score, and the overall status. Immutable once constructed;
// each cycle supersedes the previous snapshot rather than mutating it.
type Snapshot struct {
	ID            uuid.UUID       `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	Audio         AudioAnalysis   `json:"audio"`
	Video         VideoAnalysis   `json:"video"`
	Network       NetworkAnalysis `json:"network"`
	QualityScore  QualityScore    `json:"quality_score"`
	OverallStatus OverallStatus   `json:"overall_status"`
}

// CompositeScorer folds the three analyzers' latest results into one
// readiness score and one overall status. It owns no state; every call is
// a pure function of its inputs.
type CompositeScorer struct {
	cfg   CompositeConfig
	audio AudioConfig
}

// NewCompositeScorer creates a scorer. The audio config supplies the
// optimal-RMS center used by the OK-status score bonus.
func NewCompositeScorer(cfg CompositeConfig, audio AudioConfig) *CompositeScorer {
	return &CompositeScorer{cfg: cfg, audio: audio}
}

// Score converts the three analyses into sub-scores and the weighted
// overall quality, clamped to [0, 100].
func (c *CompositeScorer) Score(audio AudioAnalysis, video VideoAnalysis, network NetworkAnalysis) QualityScore {
	audioScore := c.audioScore(audio)
	videoScore := c.videoScore(video)
	networkScore := network.StabilityScore // already 0-100

	overall := math.Round(c.cfg.VideoWeight*videoScore +
		c.cfg.AudioWeight*audioScore +
		c.cfg.NetworkWeight*networkScore)

	return QualityScore{
		AudioScore:     audioScore,
		VideoScore:     videoScore,
		NetworkScore:   networkScore,
		OverallQuality: stats.Clamp(overall, 0, 100),
	}
}

// audioScore maps the audio status to a 0-100 sub-score. An OK signal
// earns a bonus for sitting near the optimal speech RMS.
func (c *CompositeScorer) audioScore(a AudioAnalysis) float64 {
	switch a.Status {
	case AudioOK:
		return math.Max(85, 100-500*math.Abs(a.RMS-c.audio.RMSOptimal))
	case AudioBackgroundNoise:
		return 70
	case AudioTooQuiet:
		return 50
	case AudioTooLoud:
		return 40
	case AudioClipping:
		return 0
	default:
		return 0
	}
}

// videoScore maps the video status to a 0-100 sub-score. An OK frame
// earns a bonus proportional to lighting uniformity.
func (c *CompositeScorer) videoScore(v VideoAnalysis) float64 {
	switch v.Status {
	case VideoOK:
		return 85 + 15*v.UniformityScore
	case VideoAdjustCamera:
		return 70
	case VideoUnevenLighting:
		return 60
	case VideoTooDark:
		return 50
	case VideoOverexposed:
		return 40
	default:
		return 0
	}
}

// ResolveOverallStatus applies the severity lattice across the three raw
// statuses. This categorical judgment is independent of the numeric
// overall quality and the two need not agree: the score is a continuous
// diagnostic, the status a discrete alarm level.
func ResolveOverallStatus(audio AudioStatus, video VideoStatus, network NetworkStatus) OverallStatus {
	if audio == AudioTooLoud || video == VideoTooDark || network == NetworkCritical {
		return OverallCritical
	}
	if audio == AudioTooQuiet || audio == AudioClipping ||
		video == VideoOverexposed || network == NetworkUnstable {
		return OverallPoor
	}
	if audio == AudioOK && video == VideoOK && network == NetworkGood {
		return OverallGood
	}
	return OverallModerate
}

// Compose builds an immutable snapshot from the three latest analyses.
// Called by the scheduler after each network poll (the slowest cadence)
// or on demand.
func (c *CompositeScorer) Compose(audio AudioAnalysis, video VideoAnalysis, network NetworkAnalysis, at time.Time) Snapshot {
	return Snapshot{
		ID:            uuid.New(),
		Timestamp:     at,
		Audio:         audio,
		Video:         video,
		Network:       network,
		QualityScore:  c.Score(audio, video, network),
		OverallStatus: ResolveOverallStatus(audio.Status, video.Status, network.Status),
	}
}
