// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package args

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/buildargs"
	"github.com/gantry-build/gantry/lib/mdtext"
)

// docsParams holds the parameters for args docs.
type docsParams struct {
	cli.WorkspaceConfig
	cli.ArgSetConfig
	cli.JSONOutput
}

func docsCommand() *cli.Command {
	var params docsParams

	return &cli.Command{
		Name:    "docs",
		Summary: "Render argument documentation",
		Description: `Render the documentation comments attached to argument declarations
as a reference document, one section per argument with its type,
default, current value, and declaration site.

On a terminal the markdown is rendered as styled text; otherwise raw
markdown is emitted, suitable for committing or publishing.

Positional arguments restrict the output to the named arguments.`,
		Usage: "gantry args docs [names...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Browse all argument documentation",
				Command:     "gantry args docs",
			},
			{
				Description: "Publish raw markdown for the build dashboard",
				Command:     "gantry args docs > docs/build-arguments.md",
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

			markdown := buildargs.RenderMarkdown(docs)
			stdout := int(os.Stdout.Fd())
			if term.IsTerminal(stdout) {
				width, _, err := term.GetSize(stdout)
				if err != nil || width <= 0 {
					width = 80
				}
				if width > 100 {
					width = 100
				}
				fmt.Println(mdtext.Render(markdown, width))
				return nil
			}
			fmt.Print(markdown)
			return nil
		},
	}
}
