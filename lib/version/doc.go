// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports what build of gantry is running.
//
// Release pipelines inject [Version], [GitCommit], [GitDirty], and
// [BuildTime] via -ldflags -X:
//
//	go build -ldflags "-X github.com/gantry-build/gantry/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// When the commit was not injected (plain `go build`, test binaries),
// the revision is recovered from the vcs.revision build setting the Go
// toolchain stamps into the binary, so `gantry version` still
// identifies the checkout it was built from.
//
// [String] is the one-line --version form; [Detailed] appends the Go
// toolchain and target platform.
package version
