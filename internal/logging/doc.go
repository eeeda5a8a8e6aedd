// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

// Package logging provides centralized zerolog-based structured logging
// for Prestream.
//
// The package exposes a global logger configured once at startup (JSON
// for production, console for development), context helpers that carry
// request IDs through HTTP handlers, and an slog adapter so suture's
// sutureslog handler emits through the same logger.
//
// Typical use:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	log := logging.WithComponent("monitor")
//	log.Info().Float64("score", s).Msg("cycle complete")
//
//	logging.Ctx(r.Context()).Warn().Msg("slow client dropped")
package logging
