// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/prestream/prestream/internal/diagnostics"
	"github.com/prestream/prestream/internal/logging"
)

// Config is the root configuration for the Prestream server.
type Config struct {
	Server    ServerConfig                 `koanf:"server" json:"server"`
	Logging   logging.Config               `koanf:"logging" json:"logging"`
	Monitor   MonitorConfig                `koanf:"monitor" json:"monitor"`
	Capture   CaptureConfig                `koanf:"capture" json:"capture"`
	WebSocket WebSocketConfig              `koanf:"websocket" json:"websocket"`
	Audio     diagnostics.AudioConfig      `koanf:"audio" json:"audio"`
	Video     diagnostics.VideoConfig      `koanf:"video" json:"video"`
	Network   diagnostics.NetworkConfig    `koanf:"network" json:"network"`
	Composite diagnostics.CompositeConfig  `koanf:"composite" json:"composite"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host" json:"host" validate:"required"`
	Port            int           `koanf:"port" json:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" json:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" json:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins" json:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_requests" json:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" json:"rate_limit_window" validate:"gt=0"`
}

// MonitorConfig holds the analysis scheduler cadences.
type MonitorConfig struct {
	// AudioInterval is the audio analysis cadence. Default: 1s
	AudioInterval time.Duration `koanf:"audio_interval" json:"audio_interval" validate:"gt=0"`

	// VideoInterval is the video analysis cadence. Default: 1s
	VideoInterval time.Duration `koanf:"video_interval" json:"video_interval" validate:"gt=0"`

	// NetworkInterval is the transport poll cadence. The composite
	// snapshot is rebuilt on this cadence too. Default: 500ms
	NetworkInterval time.Duration `koanf:"network_interval" json:"network_interval" validate:"gt=0"`

	// BroadcastPerSecond caps snapshot fan-out to WebSocket clients.
	// Default: 4
	BroadcastPerSecond float64 `koanf:"broadcast_per_second" json:"broadcast_per_second" validate:"gt=0"`
}

// CaptureConfig holds capture-source resilience settings.
type CaptureConfig struct {
	// BreakerFailureThreshold is the consecutive-failure count that opens
	// a source's circuit breaker. Default: 5
	BreakerFailureThreshold uint32 `koanf:"breaker_failure_threshold" json:"breaker_failure_threshold" validate:"gte=1"`

	// BreakerOpenTimeout is how long an open breaker waits before probing
	// the source again. Default: 10s
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout" json:"breaker_open_timeout" validate:"gt=0"`

	// Synthetic selects the built-in deterministic sources instead of a
	// real capture pipeline. Default: true
	Synthetic bool `koanf:"synthetic" json:"synthetic"`
}

// WebSocketConfig holds the realtime fan-out settings.
type WebSocketConfig struct {
	// SendBufferSize is the per-client outbound queue length; clients
	// that fall this far behind are dropped. Default: 64
	SendBufferSize int `koanf:"send_buffer_size" json:"send_buffer_size" validate:"gte=1"`

	// WriteTimeout bounds a single client write. Default: 10s
	WriteTimeout time.Duration `koanf:"write_timeout" json:"write_timeout" validate:"gt=0"`

	// PongTimeout is how long to wait for a pong before considering the
	// client dead. Default: 60s
	PongTimeout time.Duration `koanf:"pong_timeout" json:"pong_timeout" validate:"gt=0"`

	// PingInterval is the server ping cadence; must be under PongTimeout.
	// Default: 54s
	PingInterval time.Duration `koanf:"ping_interval" json:"ping_interval" validate:"gt=0"`

	// MaxMessageSize bounds inbound client messages. Default: 1024
	MaxMessageSize int64 `koanf:"max_message_size" json:"max_message_size" validate:"gte=1"`
}

// Default returns a Config with all default values applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8090,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: logging.DefaultConfig(),
		Monitor: MonitorConfig{
			AudioInterval:      time.Second,
			VideoInterval:      time.Second,
			NetworkInterval:    500 * time.Millisecond,
			BroadcastPerSecond: 4,
		},
		Capture: CaptureConfig{
			BreakerFailureThreshold: 5,
			BreakerOpenTimeout:      10 * time.Second,
			Synthetic:               true,
		},
		WebSocket: WebSocketConfig{
			SendBufferSize: 64,
			WriteTimeout:   10 * time.Second,
			PongTimeout:    60 * time.Second,
			PingInterval:   54 * time.Second,
			MaxMessageSize: 1024,
		},
		Audio:     diagnostics.DefaultAudioConfig(),
		Video:     diagnostics.DefaultVideoConfig(),
		Network:   diagnostics.DefaultNetworkConfig(),
		Composite: diagnostics.DefaultCompositeConfig(),
	}
}

// Validate checks structural validity and cross-field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.WebSocket.PingInterval >= c.WebSocket.PongTimeout {
		return fmt.Errorf("websocket ping_interval (%s) must be shorter than pong_timeout (%s)",
			c.WebSocket.PingInterval, c.WebSocket.PongTimeout)
	}
	if w := c.Composite.AudioWeight + c.Composite.VideoWeight + c.Composite.NetworkWeight; w < 0.999 || w > 1.001 {
		return fmt.Errorf("composite weights must sum to 1, got %.3f", w)
	}
	return nil
}

// Addr returns the server's host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
