// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package workspace implements the "gantry workspace" command group:
// initializing a workspace configuration and inspecting the resolved
// one.
package workspace
