// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Gantry packages.
//
// [WriteTree] materializes a map of relative paths to file contents
// under a directory, creating parent directories as needed. Loader and
// workspace tests use it to lay out fixture trees without a pile of
// os.MkdirAll/os.WriteFile boilerplate per test.
//
// [RequireIssue] and [RequireNoIssues] assert on the issue lists
// returned by the Validate and Vet entry points, which report problems
// as human-readable strings rather than errors. RequireIssue matches by
// substring so tests stay stable across message rewording.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no Gantry-internal dependencies.
package testutil
