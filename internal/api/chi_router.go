// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prestream/prestream/internal/middleware"
)

// Router wires handlers and middleware into the Chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	ws            http.HandlerFunc
}

// NewRouter creates a router. ws handles WebSocket upgrade requests
// and may be nil when realtime fan-out is disabled.
func NewRouter(handler *Handler, chiMiddleware *ChiMiddleware, ws http.HandlerFunc) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: chiMiddleware,
		ws:            ws,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order. CORS must be
	// global to handle OPTIONS preflight.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Health probes get permissive rate limiting so monitoring tools
	// can poll them on tight loops.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	r.Route("/api/v1/diagnostics", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/snapshot", router.handler.DiagnosticsSnapshot)
		r.Get("/quality", router.handler.DiagnosticsQuality)
		r.Get("/thresholds", router.handler.DiagnosticsThresholds)
	})

	// WebSocket upgrade. Rate limited on the upgrade, not messages.
	if router.ws != nil {
		r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/ws", router.ws)
	}

	r.Handle("/metrics", promhttp.Handler())

	return r
}
