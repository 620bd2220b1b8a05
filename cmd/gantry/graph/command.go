// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"github.com/gantry-build/gantry/cmd/gantry/cli"
)

// Command returns the "graph" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "graph",
		Summary: "Build graph operations",
		Description: `Load build-rule fragments into a target graph and work with it:
check fragments, derive evaluation plans, compute the bindings
environment contract, and query or browse targets.

Fragments are BUILD.gn files interpreted against the resolved build
argument set, so --args, --overrides, and --set shape what the graph
contains. Fragment files come from positional arguments where a
command accepts them; otherwise every BUILD.gn under the workspace
fragment roots loads.`,
		Subcommands: []*cli.Command{
			vetCommand(),
			planCommand(),
			envCommand(),
			showCommand(),
			findCommand(),
			browseCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Check every fragment in the workspace",
				Command:     "gantry graph vet",
			},
			{
				Description: "Print the evaluation plan",
				Command:     "gantry graph plan",
			},
			{
				Description: "Inspect one target and its dependents",
				Command:     "gantry graph show //media/audio:mixer",
			},
			{
				Description: "Browse the graph interactively",
				Command:     "gantry graph browse",
			},
		},
	}
}
