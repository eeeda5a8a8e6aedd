// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

/*
Package diagnostics implements the quality diagnostics engine: three
independent analyzers (audio, video, network) that convert raw,
high-frequency sensor samples into stable status categories, and a
composite scorer that folds their latest results into one readiness
score.

# Architecture

Each analyzer is push-driven: an external scheduler calls Analyze (audio,
video) or Push (network) on its own cadence, and every call returns a
complete, structurally valid analysis. Analyzers own only their rolling
windows; no state is shared between them. The composite scorer owns no
state at all — every Compose call is a pure function of the three latest
analyses.

Status determination is deliberately decoupled from the numeric scores:
statuses are discrete alarm levels resolved by strict priority chains,
while scores are continuous diagnostics. A single metric crossing its
worst tier dominates the status regardless of how good the composite
score looks.

# Fail-open stance

The engine has no fatal-error class. Degenerate input (empty buffer, zero
elapsed time, zero packets sent) yields zeroed metrics and the most
neutral status. Device availability ("no microphone") is the capture
collaborator's concern, not a signal-quality judgment this package is
entitled to make.

# Concurrency

Analyzer instances are confined to one calling context at a time. They
perform bounded work per call (fixed windows, fixed grid) and never
block, so a 500 ms polling loop never backs up.
*/
package diagnostics
