// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
)

// routesParams holds the parameters for manifest routes.
type routesParams struct {
	cli.WorkspaceConfig
	cli.JSONOutput
}

func routesCommand() *cli.Command {
	var params routesParams

	return &cli.Command{
		Name:    "routes",
		Summary: "Show the resolved capability route table",
		Description: `Merge a manifest's include chain and print one row per used
capability: its name, kind, target path, and resolved provider.

The provider is parent, self, or a declared child. A child reference
that names no declared child shows as unresolved — softened to
"unresolved (optional)" when the entry's availability permits the
capability to be absent.`,
		Usage: "gantry manifest routes <file> [flags]",
		Examples: []cli.Example{
			{
				Description: "Audit what a component pulls in",
				Command:     "gantry manifest routes manifests/audio.gantry",
			},
			{
				Description: "Feed the table to tooling",
				Command:     "gantry manifest routes manifests/audio.gantry --json",
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
			routes := doc.Routes()

			if done, err := params.EmitJSON(routes); done {
				return err
			}

			if len(routes) == 0 {
				fmt.Println("No capabilities used.")
				return nil
			}
			writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "CAPABILITY\tKIND\tPATH\tPROVIDER")
			for _, route := range routes {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					route.Capability, route.Kind, route.Path, route.Provider)
			}
			return writer.Flush()
		},
	}
}
