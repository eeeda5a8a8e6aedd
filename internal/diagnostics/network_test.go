// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package diagnostics

import (
	"testing"
	"time"
)

// pushSteady feeds n polls at a 500 ms cadence with a constant byte rate
// of 1800 kbps, zero loss, the given RTT sequence (cycled), and 30 fps.
// It returns the last analysis.
func pushSteady(na *NetworkAnalyzer, start time.Time, n int, rtts []float64) NetworkAnalysis {
	var last NetworkAnalysis
	for i := 0; i < n; i++ {
		last = na.Push(TransportSample{
			Timestamp:       start.Add(time.Duration(i) * 500 * time.Millisecond),
			BytesSent:       uint64(i) * 112500, // 112500 B / 500 ms = 1800 kbps
			PacketsSent:     uint64(i+1) * 1000,
			PacketsLost:     0,
			RTTMillis:       rtts[i%len(rtts)],
			FramesPerSecond: 30,
			FramesSent:      uint64(i+1) * 15,
			FramesDropped:   0,
		})
	}
	return last
}

func TestNetworkFirstPollIsCritical(t *testing.T) {
	na := NewNetworkAnalyzer(DefaultNetworkConfig())

	got := na.Push(TransportSample{
		Timestamp:       time.Now(),
		BytesSent:       500000,
		PacketsSent:     1000,
		RTTMillis:       50,
		FramesPerSecond: 30,
	})

	// No previous counter snapshot: bitrate is 0, which lands in the
	// critical tier no matter how healthy everything else looks.
	if got.BitrateKbps != 0 {
		t.Errorf("BitrateKbps = %v, want 0 on first poll", got.BitrateKbps)
	}
	if got.Status != NetworkCritical {
		t.Errorf("Status = %q, want %q", got.Status, NetworkCritical)
	}
}

func TestNetworkSteadyHealthyStreamIsGood(t *testing.T) {
	na := NewNetworkAnalyzer(DefaultNetworkConfig())

	// 11 polls: the unprimed first poll's 0 kbps falls out of the
	// 10-sample bitrate window, leaving a perfectly flat 1800 kbps.
	got := pushSteady(na, time.Unix(1700000000, 0), 11, []float64{50})

	if got.BitrateKbps != 1800 {
		t.Errorf("BitrateKbps = %v, want 1800", got.BitrateKbps)
	}
	if got.Status != NetworkGood {
		t.Errorf("Status = %q, want %q (analysis: %+v)", got.Status, NetworkGood, got)
	}
	// current = 0.25*1 + 0.25*1 + 0.25*0.9 + 0.25*1 = 0.975, stability = 1:
	// round((0.4*0.975 + 0.6) * 100) = 99.
	if got.StabilityScore != 99 {
		t.Errorf("StabilityScore = %v, want 99", got.StabilityScore)
	}
}

func TestNetworkCumulativeLossTriggersCritical(t *testing.T) {
	na := NewNetworkAnalyzer(DefaultNetworkConfig())

	pushSteady(na, time.Unix(1700000000, 0), 5, []float64{50})
	got := na.Push(TransportSample{
		Timestamp:       time.Unix(1700000000, 0).Add(2500 * time.Millisecond),
		BytesSent:       5 * 112500,
		PacketsSent:     6000,
		PacketsLost:     180, // 3% cumulative
		RTTMillis:       50,
		FramesPerSecond: 30,
	})

	if got.PacketLoss != 3 {
		t.Errorf("PacketLoss = %v, want 3", got.PacketLoss)
	}
	if got.Status != NetworkCritical {
		t.Errorf("Status = %q, want %q", got.Status, NetworkCritical)
	}
}

func TestNetworkJitterTriggersUnstable(t *testing.T) {
	na := NewNetworkAnalyzer(DefaultNetworkConfig())

	// RTT alternates 10/60 ms: every metric is individually within the
	// unstable thresholds, but the mean absolute successive difference is
	// 50 ms > 30 ms. 12 polls so the unprimed 0 kbps poll has left the
	// bitrate window and cannot be the trigger.
	got := pushSteady(na, time.Unix(1700000000, 0), 12, []float64{10, 60})

	if got.JitterMs != 50 {
		t.Errorf("JitterMs = %v, want 50", got.JitterMs)
	}
	if got.Status != NetworkUnstable {
		t.Errorf("Status = %q, want %q (analysis: %+v)", got.Status, NetworkUnstable, got)
	}
}

func TestNetworkModerateTierOnElevatedLatency(t *testing.T) {
	na := NewNetworkAnalyzer(DefaultNetworkConfig())

	// Steady 1800 kbps with RTT 150 ms: above the 100 ms moderate
	// threshold, below the 200 ms unstable one.
	got := pushSteady(na, time.Unix(1700000000, 0), 11, []float64{150})

	if got.Status != NetworkModerate {
		t.Errorf("Status = %q, want %q", got.Status, NetworkModerate)
	}
}

func TestNetworkBitrateDegenerateInputs(t *testing.T) {
	base := time.Unix(1700000000, 0)

	t.Run("zero elapsed time", func(t *testing.T) {
		na := NewNetworkAnalyzer(DefaultNetworkConfig())
		na.Push(TransportSample{Timestamp: base, BytesSent: 100000})
		got := na.Push(TransportSample{Timestamp: base, BytesSent: 200000})
		if got.BitrateKbps != 0 {
			t.Errorf("BitrateKbps = %v, want 0 for zero delta-t", got.BitrateKbps)
		}
	})

	t.Run("counter reset", func(t *testing.T) {
		na := NewNetworkAnalyzer(DefaultNetworkConfig())
		na.Push(TransportSample{Timestamp: base, BytesSent: 900000})
		got := na.Push(TransportSample{
			Timestamp: base.Add(500 * time.Millisecond),
			BytesSent: 100000, // transport restarted
		})
		if got.BitrateKbps != 0 {
			t.Errorf("BitrateKbps = %v, want 0 after counter reset", got.BitrateKbps)
		}
	})

	t.Run("zero packets sent", func(t *testing.T) {
		na := NewNetworkAnalyzer(DefaultNetworkConfig())
		got := na.Push(TransportSample{Timestamp: base})
		if got.PacketLoss != 0 || got.FrameDropRatio != 0 {
			t.Errorf("got loss=%v drop=%v, want 0/0 with no packets", got.PacketLoss, got.FrameDropRatio)
		}
	})
}

func TestNetworkStabilityScoreWeighting(t *testing.T) {
	na := NewNetworkAnalyzer(DefaultNetworkConfig())

	// Perfect conditions and perfect stability pin the score at 100.
	perfect := na.stabilityScore(1500, 0, 0, 30, 0, 0, 0, 0, 0)
	if perfect != 100 {
		t.Errorf("stabilityScore(perfect) = %v, want 100", perfect)
	}

	// Rising bitrate dispersion monotonically lowers the score while all
	// instantaneous inputs stay perfect.
	prev := perfect
	for _, dispersion := range []float64{100, 250, 400, 500} {
		score := na.stabilityScore(1500, 0, 0, 30, dispersion, 0, 0, 0, 0)
		if score > prev {
			t.Errorf("stabilityScore(dispersion=%v) = %v, want <= %v", dispersion, score, prev)
		}
		prev = score
	}
	// At the full 500 kbps scale the bitrate stability term bottoms out:
	// round((0.4*1 + 0.6*0.65) * 100) = 79.
	if prev != 79 {
		t.Errorf("stabilityScore(dispersion=500) = %v, want 79", prev)
	}
}

func TestNetworkFrameDropPenalty(t *testing.T) {
	na := NewNetworkAnalyzer(DefaultNetworkConfig())

	clean := na.stabilityScore(1500, 0, 0, 30, 0, 0, 0, 0, 0.10)
	dropped := na.stabilityScore(1500, 0, 0, 30, 0, 0, 0, 0, 0.30)

	// Only the excess over the 10% threshold is charged: 20 points.
	if clean != 100 {
		t.Errorf("score at threshold = %v, want 100 (no penalty)", clean)
	}
	if dropped != 80 {
		t.Errorf("score at 30%% drops = %v, want 80", dropped)
	}
}

func TestNetworkRisingLossSlopePenalizedRecoveryNot(t *testing.T) {
	na := NewNetworkAnalyzer(DefaultNetworkConfig())

	base := time.Unix(1700000000, 0)
	// Cumulative loss climbing 0% -> 1.5% -> 3% across polls: the
	// one-sided trend slope is positive.
	losses := []uint64{0, 15, 60}
	var got NetworkAnalysis
	for i, lost := range losses {
		got = na.Push(TransportSample{
			Timestamp:       base.Add(time.Duration(i) * 500 * time.Millisecond),
			BytesSent:       uint64(i) * 112500,
			PacketsSent:     uint64(i+1) * 1000,
			PacketsLost:     lost,
			RTTMillis:       50,
			FramesPerSecond: 30,
		})
	}
	if got.LossStability <= 0 {
		t.Errorf("LossStability = %v, want > 0 for rising loss", got.LossStability)
	}

	// Recovering loss (ratio falling as sent grows) must not register.
	na.Reset()
	for i := 0; i < 3; i++ {
		got = na.Push(TransportSample{
			Timestamp:       base.Add(time.Duration(i) * 500 * time.Millisecond),
			BytesSent:       uint64(i) * 112500,
			PacketsSent:     uint64(i+1) * 1000,
			PacketsLost:     20, // fixed count, shrinking percentage
			RTTMillis:       50,
			FramesPerSecond: 30,
		})
	}
	if got.LossStability != 0 {
		t.Errorf("LossStability = %v, want 0 for recovering loss", got.LossStability)
	}
}

func TestNetworkResetDropsRollingState(t *testing.T) {
	na := NewNetworkAnalyzer(DefaultNetworkConfig())

	pushSteady(na, time.Unix(1700000000, 0), 11, []float64{50})
	na.Reset()

	got := na.Push(TransportSample{
		Timestamp:       time.Unix(1700001000, 0),
		BytesSent:       999999999,
		PacketsSent:     1000,
		RTTMillis:       50,
		FramesPerSecond: 30,
	})

	if got.BitrateKbps != 0 {
		t.Errorf("BitrateKbps = %v, want 0 on first poll after Reset", got.BitrateKbps)
	}
	if got.Status != NetworkCritical {
		t.Errorf("Status = %q, want %q", got.Status, NetworkCritical)
	}
}

func BenchmarkNetworkPush(b *testing.B) {
	na := NewNetworkAnalyzer(DefaultNetworkConfig())
	base := time.Unix(1700000000, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		na.Push(TransportSample{
			Timestamp:       base.Add(time.Duration(i) * 500 * time.Millisecond),
			BytesSent:       uint64(i) * 112500,
			PacketsSent:     uint64(i+1) * 1000,
			RTTMillis:       50,
			FramesPerSecond: 30,
		})
	}
}
