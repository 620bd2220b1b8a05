// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package args

import (
	"github.com/gantry-build/gantry/cmd/gantry/cli"
)

// Command returns the "args" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "args",
		Summary: "Build argument operations",
		Description: `Evaluate, check, format, and document build argument files.

Build arguments are the overridable flags declared in declare_args()
blocks of .gni files. Declared defaults evaluate first; an overrides
file (args.gn style) and --set literals apply on top. Resolution
rejects overrides of undeclared arguments, type changes, and
inconsistent flag combinations.

Declaration files come from positional arguments or --args; without
either, every .gni file under the workspace fragment roots is used.
The overrides file defaults to <out>/args.gn when present.`,
		Subcommands: []*cli.Command{
			vetCommand(),
			formatCommand(),
			evalCommand(),
			docsCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Check every declaration file in the workspace",
				Command:     "gantry args vet",
			},
			{
				Description: "Show resolved values with a local override",
				Command:     "gantry args eval --set audio_jobs=16",
			},
			{
				Description: "Rewrite declaration files in canonical form",
				Command:     "gantry args format --write",
			},
			{
				Description: "Render argument documentation",
				Command:     "gantry args docs",
			},
		},
	}
}
