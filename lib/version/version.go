// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time via -ldflags -X. Release builds inject all four;
// development builds fall back to module build info where possible.
var (
	// Version is the semantic version, set manually for releases.
	Version = "0.1.0-dev"

	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty is "true" when the working tree had uncommitted
	// changes at build time.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// commit resolves the git revision: the injected ldflags value when
// present, otherwise the vcs.revision stamped by the Go toolchain for
// `go build` outside a release pipeline.
func commit() (sha string, dirty bool) {
	sha, dirty = GitCommit, GitDirty == "true"
	if sha != "unknown" {
		return sha, dirty
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return sha, dirty
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			sha = setting.Value
			if len(sha) > 12 {
				sha = sha[:12]
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return sha, dirty
}

// String returns the one-line form used by --version output:
// the semantic version, the revision (with a -dirty suffix when the
// tree was modified), and the build timestamp.
func String() string {
	sha, dirty := commit()
	if dirty {
		sha += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", Version, sha, BuildTime)
}

// Detailed returns String plus the toolchain and target platform on
// indented followup lines.
func Detailed() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
