// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file search order; the first file
// found wins.
var DefaultConfigPaths = []string{
	"prestream.yaml",
	"prestream.yml",
	"/etc/prestream/config.yaml",
	"/etc/prestream/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "PRESTREAM_CONFIG"

// Load builds the configuration from layered sources with clear
// precedence: environment variables > config file > defaults.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are config paths parsed from comma-separated env
// strings into slices.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to config paths.
// Unmapped variables are dropped so stray environment noise cannot leak
// into the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - AUDIO_RMS_OPTIMAL -> audio.rms_optimal
//   - NETWORK_TARGET_BITRATE_KBPS -> network.target_bitrate_kbps
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":           "server.host",
		"http_port":           "server.port",
		"http_read_timeout":   "server.read_timeout",
		"http_write_timeout":  "server.write_timeout",
		"shutdown_timeout":    "server.shutdown_timeout",
		"cors_origins":        "server.cors_origins",
		"rate_limit_requests": "server.rate_limit_requests",
		"rate_limit_window":   "server.rate_limit_window",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Monitor mappings
		"monitor_audio_interval":   "monitor.audio_interval",
		"monitor_video_interval":   "monitor.video_interval",
		"monitor_network_interval": "monitor.network_interval",
		"broadcast_per_second":     "monitor.broadcast_per_second",

		// Capture mappings
		"capture_breaker_failures": "capture.breaker_failure_threshold",
		"capture_breaker_timeout":  "capture.breaker_open_timeout",
		"capture_synthetic":        "capture.synthetic",

		// WebSocket mappings
		"ws_send_buffer_size": "websocket.send_buffer_size",
		"ws_write_timeout":    "websocket.write_timeout",
		"ws_pong_timeout":     "websocket.pong_timeout",
		"ws_ping_interval":    "websocket.ping_interval",
		"ws_max_message_size": "websocket.max_message_size",

		// Audio analyzer mappings
		"audio_rms_low":           "audio.rms_low",
		"audio_rms_optimal":       "audio.rms_optimal",
		"audio_rms_high":          "audio.rms_high",
		"audio_clip_magnitude":    "audio.clip_magnitude",
		"audio_clip_percent":      "audio.clip_percent",
		"audio_noise_sensitivity": "audio.noise_sensitivity",
		"audio_noise_ceiling":     "audio.noise_ceiling",
		"audio_noise_ratio_max":   "audio.noise_ratio_max",

		// Video analyzer mappings
		"video_grid_size":             "video.grid_size",
		"video_brightness_max":        "video.brightness_max",
		"video_brightness_min":        "video.brightness_min",
		"video_uniformity_stddev_max": "video.uniformity_stddev_max",
		"video_fluctuation_max":       "video.fluctuation_max",
		"video_history_size":          "video.history_size",

		// Network analyzer mappings
		"network_target_bitrate_kbps":   "network.target_bitrate_kbps",
		"network_target_fps":            "network.target_fps",
		"network_critical_bitrate_kbps": "network.critical_bitrate_kbps",
		"network_critical_loss_percent": "network.critical_loss_percent",
		"network_critical_latency_ms":   "network.critical_latency_ms",
		"network_unstable_jitter_ms":    "network.unstable_jitter_ms",
		"network_metric_window_size":    "network.metric_window_size",
		"network_latency_window_size":   "network.latency_window_size",

		// Composite weights
		"composite_audio_weight":   "composite.audio_weight",
		"composite_video_weight":   "composite.video_weight",
		"composite_network_weight": "composite.network_weight",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}

// WatchConfigFile invokes callback whenever the config file changes. The
// caller is responsible for locking around any reload.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
