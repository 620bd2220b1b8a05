// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete gantry CLI command tree. It is
// a separate package from main so that integration tests can construct
// the tree and execute commands in-process.
package commands

import (
	"fmt"

	argscmd "github.com/gantry-build/gantry/cmd/gantry/args"
	"github.com/gantry-build/gantry/cmd/gantry/cli"
	credentialcmd "github.com/gantry-build/gantry/cmd/gantry/credential"
	graphcmd "github.com/gantry-build/gantry/cmd/gantry/graph"
	manifestcmd "github.com/gantry-build/gantry/cmd/gantry/manifest"
	"github.com/gantry-build/gantry/cmd/gantry/testcmd"
	workspacecmd "github.com/gantry-build/gantry/cmd/gantry/workspace"
	"github.com/gantry-build/gantry/lib/version"
)

// Root builds and returns the complete gantry CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "gantry",
		Description: `Gantry: declarative build graph and test orchestration tooling.

Evaluate build argument files, validate and plan cross-fragment build
graphs, compile test manifests into distributable bundles, and compute
launch plans for on-device test execution.`,
		Subcommands: []*cli.Command{
			argscmd.Command(),
			manifestcmd.Command(),
			graphcmd.Command(),
			testcmd.Command(),
			credentialcmd.Command(),
			workspacecmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("gantry %s\n", version.Detailed())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Initialize a workspace configuration (start here)",
				Command:     "gantry workspace init",
			},
			{
				Description: "Validate every build argument file in the workspace",
				Command:     "gantry args vet",
			},
			{
				Description: "Evaluate arguments with a local overrides file",
				Command:     "gantry args eval --overrides local.gni",
			},
			{
				Description: "Check all fragments and compute the build order",
				Command:     "gantry graph plan",
			},
			{
				Description: "Browse the build graph interactively",
				Command:     "gantry graph browse",
			},
			{
				Description: "Compile a test manifest into a distributable bundle",
				Command:     "gantry manifest compile manifests/audio.gantry --out audio.bundle",
			},
			{
				Description: "Compute a launch plan for a compiled bundle",
				Command:     "gantry test plan --manifest audio.bundle --url gantry-pkg://media/audio-tests#meta/audio_tests.gantry",
			},
			{
				Description: "Seal a secret for the workspace recipients",
				Command:     "gantry credential seal --name ci-upload-token",
			},
		},
	}
}
