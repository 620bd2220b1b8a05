// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest implements the "gantry manifest" command group:
// checking, formatting, merging, inspecting, and compiling component
// capability manifests.
package manifest
