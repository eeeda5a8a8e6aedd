// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package diagnostics

import (
	"math"
	"testing"
)

// fillBuffer returns a buffer of n bytes all set to v.
func fillBuffer(n int, v byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

// alternatingBuffer returns a buffer alternating between a and b.
func alternatingBuffer(n int, a, b byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		if i%2 == 0 {
			buf[i] = a
		} else {
			buf[i] = b
		}
	}
	return buf
}

func TestAudioAnalyzeEmptyBufferFailsOpen(t *testing.T) {
	a := NewAudioAnalyzer(DefaultAudioConfig())

	for _, buf := range [][]byte{nil, {}} {
		got := a.Analyze(buf)
		if got.Status != AudioOK {
			t.Errorf("Analyze(%v).Status = %q, want %q", buf, got.Status, AudioOK)
		}
		if got.RMS != 0 || got.ClippingPercent != 0 || got.NoiseFloor != 0 {
			t.Errorf("Analyze(%v) = %+v, want zeroed metrics", buf, got)
		}
	}
}

func TestAudioSilentBufferIsTooQuiet(t *testing.T) {
	a := NewAudioAnalyzer(DefaultAudioConfig())

	// All bytes at the unsigned midpoint normalize to 0: RMS 0 < 0.01.
	got := a.Analyze(fillBuffer(512, 128))

	if got.Status != AudioTooQuiet {
		t.Errorf("Status = %q, want %q", got.Status, AudioTooQuiet)
	}
	if got.RMS != 0 {
		t.Errorf("RMS = %v, want 0", got.RMS)
	}
	if got.Clipping {
		t.Error("Clipping = true, want false")
	}
}

func TestAudioNormalSpeechIsOK(t *testing.T) {
	a := NewAudioAnalyzer(DefaultAudioConfig())

	// +/-13 around midpoint: |s| ~ 0.1016, well inside [0.01, 0.70].
	got := a.Analyze(alternatingBuffer(512, 141, 115))

	if got.Status != AudioOK {
		t.Errorf("Status = %q, want %q (analysis: %+v)", got.Status, AudioOK, got)
	}
	wantRMS := 13.0 / 128.0
	if math.Abs(got.RMS-wantRMS) > 1e-9 {
		t.Errorf("RMS = %v, want %v", got.RMS, wantRMS)
	}
}

func TestAudioClippingDominatesRegardlessOfRMS(t *testing.T) {
	a := NewAudioAnalyzer(DefaultAudioConfig())

	tests := []struct {
		name string
		buf  []byte
	}{
		// Every sample clipped: RMS is also above RMSHigh, but the chain
		// resolves clipping first.
		{"fully clipped", fillBuffer(512, 255)},
		// ~10% clipped, the rest silent: RMS is low, clipping still wins.
		{"partially clipped", append(fillBuffer(52, 255), fillBuffer(460, 128)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Analyze(tt.buf)
			if got.Status != AudioClipping {
				t.Errorf("Status = %q, want %q (clipping %.2f%%)", got.Status, AudioClipping, got.ClippingPercent)
			}
			if !got.Clipping {
				t.Error("Clipping = false, want true")
			}
		})
	}
}

func TestAudioHotSignalWithoutClippingIsTooLoud(t *testing.T) {
	a := NewAudioAnalyzer(DefaultAudioConfig())

	// |s| ~ 0.797: above RMSHigh 0.70 but below the 0.95 clip magnitude.
	got := a.Analyze(fillBuffer(512, 230))

	if got.Status != AudioTooLoud {
		t.Errorf("Status = %q, want %q (rms %.3f, clip %.2f%%)",
			got.Status, AudioTooLoud, got.RMS, got.ClippingPercent)
	}
	if got.ClippingPercent != 0 {
		t.Errorf("ClippingPercent = %v, want 0", got.ClippingPercent)
	}
}

func TestAudioQuietNoisyBufferIsBackgroundNoise(t *testing.T) {
	a := NewAudioAnalyzer(DefaultAudioConfig())

	// Half the samples silent, half at |s| ~ 0.1: noise floor is 0, so
	// every non-silent sample lands strictly inside the noise band
	// (0, 0.3). RMS ~ 0.072 sits under RMSOptimal, above RMSLow.
	got := a.Analyze(alternatingBuffer(512, 128, 141))

	if got.Status != AudioBackgroundNoise {
		t.Errorf("Status = %q, want %q (rms %.4f, noise ratio %.2f)",
			got.Status, AudioBackgroundNoise, got.RMS, got.NoiseRatio)
	}
	if got.NoiseRatio < 0.4 {
		t.Errorf("NoiseRatio = %v, want > 0.4", got.NoiseRatio)
	}
}

func TestAudioNoiseFloorIsFifthPercentile(t *testing.T) {
	a := NewAudioAnalyzer(DefaultAudioConfig())

	// 90% silent, 10% loud: the 5th-percentile magnitude must be the
	// silent floor, not influenced by the loud minority.
	buf := append(fillBuffer(460, 128), fillBuffer(52, 230)...)
	got := a.Analyze(buf)

	if got.NoiseFloor != 0 {
		t.Errorf("NoiseFloor = %v, want 0", got.NoiseFloor)
	}
}

func TestAudioRMSEdgeGuard(t *testing.T) {
	a := NewAudioAnalyzer(DefaultAudioConfig())

	// Loud spikes confined to the first and last 10 samples must not
	// leak into the RMS.
	buf := fillBuffer(512, 128)
	for i := 0; i < 10; i++ {
		buf[i] = 255
		buf[len(buf)-1-i] = 255
	}
	got := a.Analyze(buf)

	if got.RMS != 0 {
		t.Errorf("RMS = %v, want 0 (edge samples excluded)", got.RMS)
	}
}

func TestAudioShortBufferSkipsEdgeGuard(t *testing.T) {
	a := NewAudioAnalyzer(DefaultAudioConfig())

	// 16 samples <= 2*EdgeGuard: the whole buffer is used rather than
	// guarding away everything.
	got := a.Analyze(fillBuffer(16, 230))

	if got.RMS == 0 {
		t.Error("RMS = 0, want non-zero for short buffer")
	}
}

func TestAudioRMSHistoryRetained(t *testing.T) {
	cfg := DefaultAudioConfig()
	cfg.RMSWindowSize = 4
	a := NewAudioAnalyzer(cfg)

	for i := 0; i < 6; i++ {
		a.Analyze(fillBuffer(64, 141))
	}

	history := a.RMSHistory()
	if len(history) != 4 {
		t.Errorf("len(RMSHistory()) = %d, want 4 (window capacity)", len(history))
	}
}

func BenchmarkAudioAnalyze(b *testing.B) {
	a := NewAudioAnalyzer(DefaultAudioConfig())
	buf := alternatingBuffer(2048, 141, 115)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.Analyze(buf)
	}
}
