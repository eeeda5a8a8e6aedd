// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/prestream/prestream/internal/diagnostics"
)

type flakyAudio struct {
	calls int
	err   error
}

func (f *flakyAudio) ReadSamples(context.Context) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return make([]byte, 64), nil
}

func TestGuardedAudioPassesThroughOnSuccess(t *testing.T) {
	src := &flakyAudio{}
	guarded := NewGuardedAudio(src, BreakerSettings{FailureThreshold: 3, OpenTimeout: time.Minute})

	buf, err := guarded.ReadSamples(context.Background())
	if err != nil {
		t.Fatalf("ReadSamples error: %v", err)
	}
	if len(buf) != 64 {
		t.Errorf("len(buf) = %d, want 64", len(buf))
	}
}

func TestGuardedAudioOpensAfterConsecutiveFailures(t *testing.T) {
	src := &flakyAudio{err: errors.New("device gone")}
	guarded := NewGuardedAudio(src, BreakerSettings{FailureThreshold: 3, OpenTimeout: time.Minute})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := guarded.ReadSamples(ctx); err == nil {
			t.Fatalf("read %d: expected error", i)
		}
	}

	// Breaker is open: the source must not be probed again before the
	// open timeout.
	callsBefore := src.calls
	_, err := guarded.ReadSamples(ctx)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
	if src.calls != callsBefore {
		t.Errorf("source called %d times while open, want 0", src.calls-callsBefore)
	}
}

func TestGuardedAudioRecoversAfterTimeout(t *testing.T) {
	src := &flakyAudio{err: errors.New("device gone")}
	guarded := NewGuardedAudio(src, BreakerSettings{FailureThreshold: 2, OpenTimeout: 20 * time.Millisecond})

	ctx := context.Background()
	guarded.ReadSamples(ctx)
	guarded.ReadSamples(ctx)

	// Source comes back while the breaker waits out its open period.
	src.err = nil
	time.Sleep(30 * time.Millisecond)

	if _, err := guarded.ReadSamples(ctx); err != nil {
		t.Errorf("ReadSamples after recovery = %v, want nil", err)
	}
}

type flakyStats struct {
	err error
}

func (f *flakyStats) ReadStats(context.Context) (diagnostics.TransportSample, error) {
	if f.err != nil {
		return diagnostics.TransportSample{}, f.err
	}
	return diagnostics.TransportSample{Timestamp: time.Now(), BytesSent: 1}, nil
}

func TestGuardedStatsPropagatesSample(t *testing.T) {
	guarded := NewGuardedStats(&flakyStats{}, BreakerSettings{FailureThreshold: 3, OpenTimeout: time.Minute})

	sample, err := guarded.ReadStats(context.Background())
	if err != nil {
		t.Fatalf("ReadStats error: %v", err)
	}
	if sample.BytesSent != 1 {
		t.Errorf("BytesSent = %d, want 1", sample.BytesSent)
	}
}
