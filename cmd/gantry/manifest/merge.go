// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"os"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
)

// mergeParams holds the parameters for manifest merge.
type mergeParams struct {
	cli.WorkspaceConfig
}

func mergeCommand() *cli.Command {
	var params mergeParams

	return &cli.Command{
		Name:    "merge",
		Summary: "Flatten a manifest include chain",
		Description: `Resolve a manifest's include chain into a single canonical document
on stdout.

Includes merge depth-first in declaration order, included content
first, so the including manifest's own entries land after everything
it pulls in. Exact-duplicate children, use entries, and offer entries
collapse to one; program and facets deep-merge, with conflicting
scalar values reported as errors naming both source files. Include
cycles are errors.`,
		Usage: "gantry manifest merge <file> [flags]",
		Examples: []cli.Example{
			{
				Description: "Flatten for inspection",
				Command:     "gantry manifest merge manifests/audio.gantry",
			},
			{
				Description: "Materialize the merged form",
				Command:     "gantry manifest merge manifests/audio.gantry > out/audio.merged.gantry",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one manifest file is required")
			}
			cfg, err := params.WorkspaceConfig.Load()
			if err != nil {
				return err
			}

			doc, err := mergeManifest(cfg, args[0])
			if err != nil {
				return err
			}
			formatted, err := doc.Serialize()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(formatted)
			return err
		},
	}
}
