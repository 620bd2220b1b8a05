// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
)

// envParams holds the parameters for graph env.
type envParams struct {
	cli.WorkspaceConfig
	cli.ArgSetConfig
	cli.JSONOutput
	GenRoot string `flag:"gen-root" desc:"generated-source root (default: the workspace gen path)"`
}

func envCommand() *cli.Command {
	var params envParams

	return &cli.Command{
		Name:    "env",
		Summary: "Compute the bindings environment contract",
		Description: `Print the environment variables the external build system must
inject when compiling targets with bindings-generator dependencies.

For every Rust static library or executable that depends on a
rust_bindgen_generator, the compile step must see BINDGEN_RS_FILE
naming the generator's output, which lands under the generated-source
root at the generator's fragment directory. Nothing is written; this
is the contract the external build fulfills.`,
		Usage: "gantry graph env [fragments...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Print the contract for the workspace",
				Command:     "gantry graph env",
			},
			{
				Description: "Feed a build generator",
				Command:     "gantry graph env --json --gen-root /work/out/gen",
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

			genRoot := params.GenRoot
			if genRoot == "" {
				genRoot = cfg.Paths.Gen
			}
			entries := graph.BindgenEnv(genRoot)

			if done, err := params.EmitJSON(entries); done {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No bindings-generator dependencies.")
				return nil
			}
			writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "TARGET\tNAME\tVALUE")
			for _, entry := range entries {
				fmt.Fprintf(writer, "%s\t%s\t%s\n", entry.Target, entry.Name, entry.Value)
			}
			return writer.Flush()
		},
	}
}
