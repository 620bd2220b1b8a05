// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
)

// planParams holds the parameters for graph plan.
type planParams struct {
	cli.WorkspaceConfig
	cli.ArgSetConfig
	cli.JSONOutput
}

func planCommand() *cli.Command {
	var params planParams

	return &cli.Command{
		Name:    "plan",
		Summary: "Derive the evaluation plan",
		Description: `Load the fragment set and print its evaluation plan: every target
in dependency order with its depth level.

Dependencies always precede dependents and ties break by label, so
the same graph prints the same plan on every machine. Entries of
equal depth never depend on one another — an executor may run a
whole level at once. The plan digest identifies the semantic graph:
formatting and comments do not move it, field and dependency changes
do.`,
		Usage: "gantry graph plan [fragments...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Plan the whole workspace",
				Command:     "gantry graph plan",
			},
			{
				Description: "Compare plans across an argument change",
				Command:     "gantry graph plan --set enable_audio=true --json",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			cfg, err := params.WorkspaceConfig.Load()
			if err != nil {
				return err
			}
			graph, err := loadGraph(cfg, &params.ArgSetConfig, args)
			if err != nil {
				return err
			}
			plan, err := graph.Plan()
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(plan); done {
				return err
			}

			if len(plan.Entries) == 0 {
				fmt.Println("No targets defined.")
				return nil
			}
			writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "DEPTH\tLABEL\tKIND")
			for _, entry := range plan.Entries {
				fmt.Fprintf(writer, "%d\t%s\t%s\n", entry.Depth, entry.Label, entry.Kind)
			}
			if err := writer.Flush(); err != nil {
				return err
			}
			fmt.Printf("\n%d targets, plan digest %s\n", len(plan.Entries), plan.Digest.Short())
			return nil
		},
	}
}
