// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package diagnostics

import (
	"github.com/prestream/prestream/internal/stats"
)

// VideoConfig holds the video analyzer thresholds.
type VideoConfig struct {
	// GridSize is the per-axis cell count of the luminance grid the
	// capture layer samples from each frame. Default: 16 (16x16 cells)
	GridSize int `koanf:"grid_size" json:"grid_size" validate:"gte=1,lte=64"`

	// BrightnessMax is the mean luminance above which the frame is
	// overexposed. Default: 180
	BrightnessMax float64 `koanf:"brightness_max" json:"brightness_max" validate:"gte=0,lte=255"`

	// BrightnessMin is the mean luminance below which the frame is too
	// dark. Default: 30
	BrightnessMin float64 `koanf:"brightness_min" json:"brightness_min" validate:"gte=0,lte=255"`

	// UniformityStdDevMax is the cell-luminance standard deviation above
	// which lighting is uneven. Default: 30
	UniformityStdDevMax float64 `koanf:"uniformity_stddev_max" json:"uniformity_stddev_max" validate:"gte=0"`

	// FluctuationMax is the frame-to-frame brightness mean absolute
	// deviation above which the picture is flickering or the camera is
	// hunting. Default: 15
	FluctuationMax float64 `koanf:"fluctuation_max" json:"fluctuation_max" validate:"gte=0"`

	// HistorySize is the brightness history length used for the
	// fluctuation measure. Default: 10 frames
	HistorySize int `koanf:"history_size" json:"history_size" validate:"gte=1"`
}

// DefaultVideoConfig returns the documented default thresholds.
func DefaultVideoConfig() VideoConfig {
	return VideoConfig{
		GridSize:            16,
		BrightnessMax:       180,
		BrightnessMin:       30,
		UniformityStdDevMax: 30,
		FluctuationMax:      15,
		HistorySize:         10,
	}
}

// VideoAnalysis is the result of one video analysis pass.
type VideoAnalysis struct {
	Brightness          float64     `json:"brightness"`            // [0,255] mean cell luminance
	UniformityScore     float64     `json:"uniformity_score"`      // [0,1], 1 = perfectly even lighting
	UniformityStdDev    float64     `json:"uniformity_stddev"`     // >= 0
	BrightnessFluctuation float64    `json:"brightness_fluctuation"` // mean abs deviation over history
	Status              VideoStatus `json:"status"`
}

// VideoAnalyzer derives brightness, spatial uniformity, and temporal
// fluctuation from per-frame luminance grids. It retains only the
// brightness history window.
type VideoAnalyzer struct {
	cfg     VideoConfig
	history *stats.Window
}

// NewVideoAnalyzer creates an analyzer with the given thresholds.
func NewVideoAnalyzer(cfg VideoConfig) *VideoAnalyzer {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultVideoConfig().HistorySize
	}
	return &VideoAnalyzer{
		cfg:     cfg,
		history: stats.NewWindow(cfg.HistorySize),
	}
}

// Analyze processes one luminance grid (cell luminances in [0,255], BT.709
// luma averaged per cell by the capture layer) and returns a complete
// analysis. An empty grid yields a zeroed analysis with status OK.
func (v *VideoAnalyzer) Analyze(grid []float64) VideoAnalysis {
	if len(grid) == 0 {
		return VideoAnalysis{Status: VideoOK}
	}

	brightness := meanAllowSingle(grid)
	stdDev := stats.StdDev(grid)

	uniformity := 1.0 - stats.Clamp(stdDev/255.0, 0, 1)

	v.history.Push(brightness)
	fluctuation := stats.MeanAbsDeviation(v.history.Values())

	return VideoAnalysis{
		Brightness:          brightness,
		UniformityScore:     uniformity,
		UniformityStdDev:    stdDev,
		BrightnessFluctuation: fluctuation,
		Status:              v.resolveStatus(brightness, stdDev, fluctuation),
	}
}

// resolveStatus applies the strict priority chain; first match wins.
// Exposure problems outrank uniformity, which outranks flicker: a washed
// out frame makes the other measures meaningless.
func (v *VideoAnalyzer) resolveStatus(brightness, stdDev, fluctuation float64) VideoStatus {
	switch {
	case brightness > v.cfg.BrightnessMax:
		return VideoOverexposed
	case brightness < v.cfg.BrightnessMin:
		return VideoTooDark
	case stdDev > v.cfg.UniformityStdDevMax:
		return VideoUnevenLighting
	case fluctuation > v.cfg.FluctuationMax:
		return VideoAdjustCamera
	default:
		return VideoOK
	}
}

// BrightnessHistory returns the rolling brightness window, oldest first.
func (v *VideoAnalyzer) BrightnessHistory() []float64 {
	return v.history.Values()
}

// Config returns the analyzer's thresholds.
func (v *VideoAnalyzer) Config() VideoConfig {
	return v.cfg
}

// meanAllowSingle is a plain mean that, unlike stats.Mean, accepts a
// single-cell grid: a 1x1 grid is a degenerate but valid configuration,
// and its brightness is simply that cell's luminance.
func meanAllowSingle(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
