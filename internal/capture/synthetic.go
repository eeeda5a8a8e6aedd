// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package capture

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/prestream/prestream/internal/diagnostics"
)

// SyntheticAudio generates a sine tone as unsigned 8-bit PCM. With the
// default amplitude the analyzer reads it as healthy speech-level audio;
// raise Amplitude toward 1.0 to exercise the clipping paths.
type SyntheticAudio struct {
	// Amplitude is the peak magnitude in [0, 1]. Default: 0.15 (RMS ~0.11)
	Amplitude float64
	// Frequency is the tone frequency in Hz. Default: 440
	Frequency float64
	// SampleRate in Hz. Default: 8000
	SampleRate float64
	// BufferSize is samples per read. Default: 2048
	BufferSize int

	mu    sync.Mutex
	phase float64
}

// ReadSamples synthesizes the next buffer, continuing the tone's phase
// across calls.
func (s *SyntheticAudio) ReadSamples(_ context.Context) ([]byte, error) {
	amplitude := s.Amplitude
	if amplitude == 0 {
		amplitude = 0.15
	}
	freq := s.Frequency
	if freq == 0 {
		freq = 440
	}
	rate := s.SampleRate
	if rate == 0 {
		rate = 8000
	}
	size := s.BufferSize
	if size == 0 {
		size = 2048
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, size)
	step := 2 * math.Pi * freq / rate
	for i := range buf {
		v := amplitude * math.Sin(s.phase)
		buf[i] = byte(math.Round(128 + v*127))
		s.phase += step
	}
	s.phase = math.Mod(s.phase, 2*math.Pi)
	return buf, nil
}

// SyntheticVideo generates evenly lit frames with a gentle horizontal
// gradient, centered on a configurable brightness.
type SyntheticVideo struct {
	// Width and Height of the frame. Default: 320x240
	Width  int
	Height int
	// Brightness is the mean gray level in [0, 255]. Default: 120
	Brightness float64
	// GradientSpan is the total left-to-right brightness spread.
	// Default: 20
	GradientSpan float64
}

// ReadFrame synthesizes one frame.
func (s *SyntheticVideo) ReadFrame(_ context.Context) (Frame, error) {
	width := s.Width
	if width == 0 {
		width = 320
	}
	height := s.Height
	if height == 0 {
		height = 240
	}
	brightness := s.Brightness
	if brightness == 0 {
		brightness = 120
	}

	pixels := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := brightness + s.GradientSpan*(float64(x)/float64(width)-0.5)
			gray := byte(clampByte(v))
			i := (y*width + x) * 4
			pixels[i] = gray
			pixels[i+1] = gray
			pixels[i+2] = gray
			pixels[i+3] = 255
		}
	}
	return Frame{Width: width, Height: height, Pixels: pixels}, nil
}

func clampByte(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// SyntheticStats simulates a healthy outbound transport: cumulative
// counters growing at a steady bitrate with a trickle of loss.
type SyntheticStats struct {
	// BitrateKbps is the simulated send rate. Default: 1800
	BitrateKbps float64
	// PacketRate is packets per second. Default: 160
	PacketRate float64
	// LossRatio is the fraction of sent packets lost. Default: 0.001
	LossRatio float64
	// RTTMillis is the reported round-trip time. Default: 45
	RTTMillis float64
	// FPS is the reported frame rate. Default: 30
	FPS float64

	mu    sync.Mutex
	start time.Time
}

// ReadStats reports counters as of now, derived from elapsed wall time
// so deltas between polls reflect the configured rates.
func (s *SyntheticStats) ReadStats(_ context.Context) (diagnostics.TransportSample, error) {
	bitrate := s.BitrateKbps
	if bitrate == 0 {
		bitrate = 1800
	}
	packetRate := s.PacketRate
	if packetRate == 0 {
		packetRate = 160
	}
	lossRatio := s.LossRatio
	if lossRatio == 0 {
		lossRatio = 0.001
	}
	rtt := s.RTTMillis
	if rtt == 0 {
		rtt = 45
	}
	fps := s.FPS
	if fps == 0 {
		fps = 30
	}

	now := time.Now()

	s.mu.Lock()
	if s.start.IsZero() {
		s.start = now
	}
	elapsed := now.Sub(s.start).Seconds()
	s.mu.Unlock()

	packetsSent := uint64(elapsed * packetRate)
	framesSent := uint64(elapsed * fps)

	return diagnostics.TransportSample{
		Timestamp:       now,
		BytesSent:       uint64(elapsed * bitrate * 1000 / 8),
		PacketsSent:     packetsSent,
		PacketsLost:     uint64(float64(packetsSent) * lossRatio),
		RTTMillis:       rtt,
		FramesPerSecond: fps,
		FramesSent:      framesSent,
		FramesDropped:   0,
	}, nil
}
