// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package capture

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/prestream/prestream/internal/diagnostics"
	"github.com/prestream/prestream/internal/logging"
	"github.com/prestream/prestream/internal/metrics"
)

// BreakerSettings tunes the per-source circuit breakers.
type BreakerSettings struct {
	// FailureThreshold is the consecutive-failure count that opens the
	// breaker.
	FailureThreshold uint32
	// OpenTimeout is how long an open breaker waits before a half-open
	// probe.
	OpenTimeout time.Duration
}

// newBreaker builds a typed gobreaker instance wired to logging and
// metrics. The breaker's timing is real wall time; that determines
// recovery behavior, not data integrity.
func newBreaker[T any](source string, settings BreakerSettings) *gobreaker.CircuitBreaker[T] {
	metrics.CaptureBreakerState.WithLabelValues(source).Set(0)

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        source,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log := logging.WithComponent("capture")
			log.Info().
				Str("source", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("breaker state change")
			metrics.CaptureBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// GuardedAudio wraps an AudioSource with a circuit breaker.
type GuardedAudio struct {
	src AudioSource
	cb  *gobreaker.CircuitBreaker[[]byte]
}

// NewGuardedAudio wraps src.
func NewGuardedAudio(src AudioSource, settings BreakerSettings) *GuardedAudio {
	return &GuardedAudio{src: src, cb: newBreaker[[]byte]("audio", settings)}
}

// ReadSamples reads through the breaker; failures count toward opening
// it and are surfaced in metrics.
func (g *GuardedAudio) ReadSamples(ctx context.Context) ([]byte, error) {
	buf, err := g.cb.Execute(func() ([]byte, error) {
		return g.src.ReadSamples(ctx)
	})
	if err != nil {
		metrics.CaptureErrors.WithLabelValues("audio").Inc()
		return nil, err
	}
	return buf, nil
}

// GuardedVideo wraps a FrameSource with a circuit breaker.
type GuardedVideo struct {
	src FrameSource
	cb  *gobreaker.CircuitBreaker[Frame]
}

// NewGuardedVideo wraps src.
func NewGuardedVideo(src FrameSource, settings BreakerSettings) *GuardedVideo {
	return &GuardedVideo{src: src, cb: newBreaker[Frame]("video", settings)}
}

// ReadFrame reads through the breaker.
func (g *GuardedVideo) ReadFrame(ctx context.Context) (Frame, error) {
	frame, err := g.cb.Execute(func() (Frame, error) {
		return g.src.ReadFrame(ctx)
	})
	if err != nil {
		metrics.CaptureErrors.WithLabelValues("video").Inc()
		return Frame{}, err
	}
	return frame, nil
}

// GuardedStats wraps a StatsSource with a circuit breaker.
type GuardedStats struct {
	src StatsSource
	cb  *gobreaker.CircuitBreaker[diagnostics.TransportSample]
}

// NewGuardedStats wraps src.
func NewGuardedStats(src StatsSource, settings BreakerSettings) *GuardedStats {
	return &GuardedStats{src: src, cb: newBreaker[diagnostics.TransportSample]("transport", settings)}
}

// ReadStats reads through the breaker.
func (g *GuardedStats) ReadStats(ctx context.Context) (diagnostics.TransportSample, error) {
	sample, err := g.cb.Execute(func() (diagnostics.TransportSample, error) {
		return g.src.ReadStats(ctx)
	})
	if err != nil {
		metrics.CaptureErrors.WithLabelValues("transport").Inc()
		return diagnostics.TransportSample{}, err
	}
	return sample, nil
}
