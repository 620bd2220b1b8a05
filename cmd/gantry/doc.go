// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Gantry is the unified CLI for working with a gantry build tree. It
// provides subcommands for build argument files (args), test manifests
// (manifest), the cross-fragment build graph (graph), test launch
// planning (test), sealed credential handling (credential), and
// workspace configuration (workspace).
package main
