// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package args

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/buildargs"
)

// evalParams holds the parameters for args eval.
type evalParams struct {
	cli.WorkspaceConfig
	cli.ArgSetConfig
	cli.JSONOutput
}

func evalCommand() *cli.Command {
	var params evalParams

	return &cli.Command{
		Name:    "eval",
		Summary: "Resolve and print the argument set",
		Description: `Resolve the build argument set and print every argument with its
current value, default, and declaration site. Overrides from the
args.gn file and --set literals are applied before printing, so the
output is exactly what a fragment evaluation would see.

Positional arguments restrict the output to the named arguments.`,
		Usage: "gantry args eval [names...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Print the full resolved set",
				Command:     "gantry args eval",
			},
			{
				Description: "Check what one flag resolves to under an override",
				Command:     "gantry args eval enable_audio --set enable_audio=true",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			cfg, err := params.WorkspaceConfig.Load()
			if err != nil {
				return err
			}
			set, err := params.ArgSetConfig.ResolveSet(cfg)
			if err != nil {
				return err
			}

			docs, err := filterDocs(set.Docs(), args)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(docs); done {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "NAME\tVALUE\tDEFAULT\tDECLARED")
			for _, doc := range docs {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s:%d\n",
					doc.Name, doc.Current, doc.Default, doc.File, doc.Line)
			}
			return writer.Flush()
		},
	}
}

// filterDocs restricts docs to the named arguments, preserving
// declaration order. An unknown name is an error; with no names the
// full set passes through.
func filterDocs(docs []buildargs.Doc, names []string) ([]buildargs.Doc, error) {
	if len(names) == 0 {
		return docs, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var filtered []buildargs.Doc
	for _, doc := range docs {
		if wanted[doc.Name] {
			filtered = append(filtered, doc)
			delete(wanted, doc.Name)
		}
	}
	for _, name := range names {
		if wanted[name] {
			return nil, fmt.Errorf("no declaration for argument %q", name)
		}
	}
	return filtered, nil
}
