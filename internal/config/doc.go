// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

// Package config loads and validates the Prestream server configuration.
//
// Configuration is layered with koanf: built-in defaults, then an
// optional YAML file, then environment variables, highest priority last.
// Every analyzer threshold is configurable; the defaults encode the
// tuned values documented on the analyzer config structs.
//
//	cfg, err := config.Load()
//
// The file path is searched in DefaultConfigPaths and can be overridden
// with PRESTREAM_CONFIG. Environment variables map through an explicit
// table (HTTP_PORT -> server.port); unknown variables are ignored.
package config
