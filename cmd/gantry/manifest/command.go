// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"github.com/gantry-build/gantry/cmd/gantry/cli"
)

// Command returns the "manifest" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "manifest",
		Summary: "Component manifest operations",
		Description: `Check, format, merge, inspect, and compile component capability
manifests.

Manifests are JSONC documents declaring what a component runs, what
capabilities it uses, and how capabilities route to its children.
Include chains merge into a single document; validated documents
compile to content-addressed binary bundles the component runtime
loads.

Include paths resolve against the workspace manifest roots, tried in
order. Repository-absolute paths use the // prefix.`,
		Subcommands: []*cli.Command{
			vetCommand(),
			formatCommand(),
			mergeCommand(),
			routesCommand(),
			compileCommand(),
			showCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Check manifests before review",
				Command:     "gantry manifest vet manifests/audio.gantry manifests/media.gantry",
			},
			{
				Description: "Flatten an include chain",
				Command:     "gantry manifest merge manifests/audio.gantry",
			},
			{
				Description: "Show where each capability comes from",
				Command:     "gantry manifest routes manifests/audio.gantry",
			},
			{
				Description: "Compile a distributable bundle",
				Command:     "gantry manifest compile manifests/audio.gantry --out out/audio.bundle",
			},
		},
	}
}
