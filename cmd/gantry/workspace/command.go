// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"github.com/gantry-build/gantry/cmd/gantry/cli"
)

// Command returns the "workspace" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "workspace",
		Summary: "Workspace configuration",
		Description: `Manage the gantry.yaml workspace configuration.

Every other command resolves its paths, argument roots, and defaults
through the workspace configuration found upward from the working
directory (or named by GANTRY_CONFIG). init writes a starter file,
info shows what the tool actually resolved.`,
		Subcommands: []*cli.Command{
			initCommand(),
			infoCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Initialize the current directory",
				Command:     "gantry workspace init",
			},
			{
				Description: "Show the resolved configuration",
				Command:     "gantry workspace info",
			},
		},
	}
}
