// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package graph implements the "gantry graph" command group: loading
// build-rule fragments into a target graph and checking, planning,
// querying, and browsing it.
package graph
