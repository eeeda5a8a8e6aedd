// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package diagnostics

// Each analyzer resolves to a closed status set rather than a free-form
// string so the priority chains stay exhaustively checkable. The literals
// are the engine's only display output; presentation layers map them to
// whatever copy they want.

// AudioStatus is the audio analyzer's status set.
type AudioStatus string

const (
	AudioOK              AudioStatus = "ok"
	AudioTooQuiet        AudioStatus = "too_quiet"
	AudioTooLoud         AudioStatus = "too_loud"
	AudioClipping        AudioStatus = "clipping"
	AudioBackgroundNoise AudioStatus = "background_noise"
)

// VideoStatus is the video analyzer's status set.
type VideoStatus string

const (
	VideoOK             VideoStatus = "ok"
	VideoTooDark        VideoStatus = "too_dark"
	VideoOverexposed    VideoStatus = "overexposed"
	VideoUnevenLighting VideoStatus = "uneven_lighting"
	VideoAdjustCamera   VideoStatus = "adjust_camera"
)

// NetworkStatus is the network analyzer's tiered status set.
type NetworkStatus string

const (
	NetworkGood     NetworkStatus = "good"
	NetworkModerate NetworkStatus = "moderate"
	NetworkUnstable NetworkStatus = "unstable"
	NetworkCritical NetworkStatus = "critical"
)

// OverallStatus is the composite severity resolved across all three
// analyzers.
type OverallStatus string

const (
	OverallGood     OverallStatus = "good"
	OverallModerate OverallStatus = "moderate"
	OverallPoor     OverallStatus = "poor"
	OverallCritical OverallStatus = "critical"
)
