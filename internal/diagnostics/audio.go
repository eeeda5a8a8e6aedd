// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package diagnostics

import (
	"math"

	"github.com/prestream/prestream/internal/stats"
)

// AudioConfig holds the audio analyzer thresholds. The defaults are
// load-bearing: status resolution is defined against them, so overriding
// a value changes what the analyzer reports, not just its sensitivity.
type AudioConfig struct {
	// RMSLow is the loudness below which the signal is a "too quiet"
	// candidate. Default: 0.01
	RMSLow float64 `koanf:"rms_low" json:"rms_low" validate:"gte=0,lte=1"`

	// RMSOptimal is the center of the ideal speech range, used for the
	// composite score bonus. Default: 0.08
	RMSOptimal float64 `koanf:"rms_optimal" json:"rms_optimal" validate:"gte=0,lte=1"`

	// RMSHigh is the loudness above which the signal is a "too loud"
	// candidate. Default: 0.70
	RMSHigh float64 `koanf:"rms_high" json:"rms_high" validate:"gte=0,lte=1"`

	// ClipMagnitude is the normalized magnitude at which a sample counts
	// as clipped. Default: 0.95
	ClipMagnitude float64 `koanf:"clip_magnitude" json:"clip_magnitude" validate:"gte=0,lte=1"`

	// ClipPercent is the clipped-sample percentage that counts as audible
	// clipping. Default: 5
	ClipPercent float64 `koanf:"clip_percent" json:"clip_percent" validate:"gte=0,lte=100"`

	// NoiseSensitivity is the multiplier above the noise floor defining
	// the lower edge of the noise-like band. Default: 0.15
	NoiseSensitivity float64 `koanf:"noise_sensitivity" json:"noise_sensitivity" validate:"gte=0"`

	// NoiseCeiling is the upper magnitude edge of the noise-like band;
	// anything louder is treated as signal. Default: 0.3
	NoiseCeiling float64 `koanf:"noise_ceiling" json:"noise_ceiling" validate:"gte=0,lte=1"`

	// NoiseRatioMax is the background-noise ratio above which a quiet
	// signal is flagged as noisy. Default: 0.40
	NoiseRatioMax float64 `koanf:"noise_ratio_max" json:"noise_ratio_max" validate:"gte=0,lte=1"`

	// EdgeGuard is the number of samples excluded from each end of the
	// buffer when computing RMS (windowing artifacts at buffer edges).
	// Default: 10
	EdgeGuard int `koanf:"edge_guard" json:"edge_guard" validate:"gte=0"`

	// RMSWindowSize is the capacity of the rolling RMS history retained
	// for callers that want smoothed trends. Default: 512
	RMSWindowSize int `koanf:"rms_window_size" json:"rms_window_size" validate:"gte=1"`
}

// DefaultAudioConfig returns the documented default thresholds.
func DefaultAudioConfig() AudioConfig {
	return AudioConfig{
		RMSLow:           0.01,
		RMSOptimal:       0.08,
		RMSHigh:          0.70,
		ClipMagnitude:    0.95,
		ClipPercent:      5.0,
		NoiseSensitivity: 0.15,
		NoiseCeiling:     0.3,
		NoiseRatioMax:    0.40,
		EdgeGuard:        10,
		RMSWindowSize:    512,
	}
}

// AudioAnalysis is the result of one audio analysis pass. Produced fresh
// on every call and never retained by the analyzer.
type AudioAnalysis struct {
	RMS             float64     `json:"rms"`              // [0,1] loudness proxy
	Clipping        bool        `json:"clipping"`         // ClippingPercent exceeded the threshold
	ClippingPercent float64     `json:"clipping_percent"` // [0,100]
	NoiseFloor      float64     `json:"noise_floor"`      // [0,1] 5th-percentile magnitude
	NoiseRatio      float64     `json:"noise_ratio"`      // [0,1] fraction of noise-like samples
	Status          AudioStatus `json:"status"`
}

// AudioAnalyzer derives loudness, clipping, and background-noise metrics
// from frequency-domain sample buffers. It retains only a rolling RMS
// window; status determination uses the instantaneous values.
type AudioAnalyzer struct {
	cfg       AudioConfig
	rmsWindow *stats.Window
}

// NewAudioAnalyzer creates an analyzer with the given thresholds.
func NewAudioAnalyzer(cfg AudioConfig) *AudioAnalyzer {
	if cfg.RMSWindowSize <= 0 {
		cfg.RMSWindowSize = DefaultAudioConfig().RMSWindowSize
	}
	return &AudioAnalyzer{
		cfg:       cfg,
		rmsWindow: stats.NewWindow(cfg.RMSWindowSize),
	}
}

// Analyze processes one frequency-magnitude buffer and returns a complete
// analysis. A nil or empty buffer yields a zeroed analysis with status OK:
// with no signal to judge, the analyzer abstains rather than alarms. The
// caller is responsible for a distinct "no microphone" state when the
// device itself is absent.
func (a *AudioAnalyzer) Analyze(buf []byte) AudioAnalysis {
	if len(buf) == 0 {
		return AudioAnalysis{Status: AudioOK}
	}

	// Normalize bytes to [-1, 1) around the unsigned midpoint and collect
	// magnitudes for the percentile and band computations.
	samples := make([]float64, len(buf))
	magnitudes := make([]float64, len(buf))
	for i, b := range buf {
		s := (float64(b) - 128.0) / 128.0
		samples[i] = s
		magnitudes[i] = math.Abs(s)
	}

	rms := a.edgeGuardedRMS(samples)

	clipped := 0
	for _, m := range magnitudes {
		if m >= a.cfg.ClipMagnitude {
			clipped++
		}
	}
	clippingPercent := float64(clipped) / float64(len(buf)) * 100.0

	noiseFloor := stats.Percentile(magnitudes, 5)

	// Samples strictly inside the band (floor*(1+sensitivity), ceiling)
	// are "noise-like": present but too faint to be deliberate signal.
	lower := noiseFloor * (1 + a.cfg.NoiseSensitivity)
	noisy := 0
	for _, m := range magnitudes {
		if m > lower && m < a.cfg.NoiseCeiling {
			noisy++
		}
	}
	noiseRatio := float64(noisy) / float64(len(buf))

	// Bookkeeping only: the window exists for callers that want smoothed
	// trends, not for status resolution.
	a.rmsWindow.Push(rms)

	return AudioAnalysis{
		RMS:             rms,
		Clipping:        clippingPercent > a.cfg.ClipPercent,
		ClippingPercent: clippingPercent,
		NoiseFloor:      noiseFloor,
		NoiseRatio:      noiseRatio,
		Status:          a.resolveStatus(rms, clippingPercent, noiseRatio),
	}
}

// resolveStatus applies the strict priority chain; first match wins.
func (a *AudioAnalyzer) resolveStatus(rms, clippingPercent, noiseRatio float64) AudioStatus {
	switch {
	case clippingPercent > a.cfg.ClipPercent:
		return AudioClipping
	case rms > a.cfg.RMSHigh:
		return AudioTooLoud
	case rms < a.cfg.RMSLow:
		return AudioTooQuiet
	case noiseRatio > a.cfg.NoiseRatioMax && rms < a.cfg.RMSOptimal:
		return AudioBackgroundNoise
	default:
		return AudioOK
	}
}

// edgeGuardedRMS computes RMS excluding EdgeGuard samples from each end.
// Buffers too short to guard are used whole.
func (a *AudioAnalyzer) edgeGuardedRMS(samples []float64) float64 {
	lo, hi := 0, len(samples)
	if len(samples) > 2*a.cfg.EdgeGuard {
		lo = a.cfg.EdgeGuard
		hi = len(samples) - a.cfg.EdgeGuard
	}

	var sumSq float64
	for _, s := range samples[lo:hi] {
		sumSq += s * s
	}
	return math.Sqrt(sumSq / float64(hi-lo))
}

// RMSHistory returns the rolling RMS window contents, oldest first.
func (a *AudioAnalyzer) RMSHistory() []float64 {
	return a.rmsWindow.Values()
}

// Config returns the analyzer's thresholds.
func (a *AudioAnalyzer) Config() AudioConfig {
	return a.cfg
}
