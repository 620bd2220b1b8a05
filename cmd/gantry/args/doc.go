// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package args implements the "gantry args" command group for build
// argument declaration files. The commands wrap lib/buildargs and
// lib/gn, providing flag parsing, workspace file discovery, and
// output formatting.
package args
