// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package testcmd implements the "gantry test" command group: launch
// planning for packaged component tests. Planning is pure computation —
// the resulting JSON document is the contract an external runner
// executes, nothing here spawns a process.
package testcmd
