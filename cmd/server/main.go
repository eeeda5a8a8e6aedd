// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prestream/prestream/internal/api"
	"github.com/prestream/prestream/internal/capture"
	"github.com/prestream/prestream/internal/config"
	"github.com/prestream/prestream/internal/logging"
	"github.com/prestream/prestream/internal/monitor"
	"github.com/prestream/prestream/internal/supervisor"
	ws "github.com/prestream/prestream/internal/websocket"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging)

	logging.Info().
		Str("version", version).
		Str("addr", cfg.Addr()).
		Bool("synthetic", cfg.Capture.Synthetic).
		Msg("Starting Prestream")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Capture sources, each behind its own circuit breaker so a failing
	// device degrades one category instead of killing the loop.
	audioSrc, videoSrc, statsSrc := buildSources(cfg)

	hub := ws.NewHub()

	mon := monitor.New(monitor.Options{
		Config:      cfg.Monitor,
		Audio:       cfg.Audio,
		Video:       cfg.Video,
		Network:     cfg.Network,
		Composite:   cfg.Composite,
		AudioSource: audioSrc,
		VideoSource: videoSrc,
		StatsSource: statsSrc,
		Broadcaster: hub,
	})

	handler := api.NewHandler(mon, hub, cfg.Capture.Synthetic, version)
	chiMW := api.NewChiMiddlewareFromServer(
		cfg.Server.CORSOrigins,
		cfg.Server.RateLimitReqs,
		cfg.Server.RateLimitWindow,
	)
	router := api.NewRouter(handler, chiMW, ws.Handler(hub, cfg.WebSocket))

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Supervisor events flow through the zerolog slog adapter.
	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	tree.AddDiagnosticsService(supervisor.NewRunnerService("monitor", mon))
	tree.AddMessagingService(supervisor.NewRunnerService("websocket-hub", hub))
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Prestream stopped gracefully")
}

// buildSources constructs the capture sources. Only the synthetic
// pipeline ships today; a real device pipeline plugs in behind the
// same interfaces.
func buildSources(cfg *config.Config) (capture.AudioSource, capture.FrameSource, capture.StatsSource) {
	if !cfg.Capture.Synthetic {
		logging.Warn().Msg("Real capture pipeline not configured; falling back to synthetic sources")
	}

	settings := capture.BreakerSettings{
		FailureThreshold: cfg.Capture.BreakerFailureThreshold,
		OpenTimeout:      cfg.Capture.BreakerOpenTimeout,
	}

	audio := capture.NewGuardedAudio(&capture.SyntheticAudio{}, settings)
	video := capture.NewGuardedVideo(&capture.SyntheticVideo{}, settings)
	stats := capture.NewGuardedStats(&capture.SyntheticStats{}, settings)
	return audio, video, stats
}
