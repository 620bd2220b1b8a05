// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package testcmd

import (
	"github.com/gantry-build/gantry/cmd/gantry/cli"
)

// Command returns the "test" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "test",
		Summary: "Test launch planning",
		Description: `Compute launch plans for packaged component tests.

A plan fixes everything the external runner needs — component URL,
realm, runner argv, filter expression, artifact and coverage
directories, environment entries — and validates the requested
collection modes against the component's capability manifest before
anything runs.`,
		Subcommands: []*cli.Command{
			planCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Plan a test run with artifact collection",
				Command:     "gantry test plan --url gantry-pkg://media/audio-tests#meta/audio_tests.gantry --manifest out/audio_tests.bundle --artifacts",
			},
		},
	}
}
