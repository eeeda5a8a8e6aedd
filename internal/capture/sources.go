// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package capture

import (
	"context"
	"errors"

	"github.com/prestream/prestream/internal/diagnostics"
)

// ErrNoData indicates a source had nothing to deliver this cycle. The
// caller skips the analysis pass rather than treating it as a failure.
var ErrNoData = errors.New("capture: no data available")

// AudioSource yields one buffer of unsigned 8-bit PCM samples per call.
type AudioSource interface {
	// ReadSamples returns the most recent audio buffer. Implementations
	// must honor ctx cancellation when blocking.
	ReadSamples(ctx context.Context) ([]byte, error)
}

// Frame is one captured video frame in RGBA layout, 4 bytes per pixel.
type Frame struct {
	Width  int
	Height int
	// Pixels holds Width*Height*4 bytes, rows top to bottom.
	Pixels []byte
}

// FrameSource yields the most recent video frame per call.
type FrameSource interface {
	ReadFrame(ctx context.Context) (Frame, error)
}

// StatsSource yields cumulative outbound transport counters per call,
// in the shape the network analyzer ingests directly.
type StatsSource interface {
	ReadStats(ctx context.Context) (diagnostics.TransportSample, error)
}
