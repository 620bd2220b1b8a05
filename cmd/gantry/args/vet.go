// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package args

import (
	"fmt"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/buildargs"
)

// vetParams holds the parameters for args vet.
type vetParams struct {
	cli.WorkspaceConfig
	cli.ArgSetConfig
	cli.JSONOutput
}

// vetResult is the JSON output for args vet.
type vetResult struct {
	Checked int      `json:"checked"`
	Issues  []string `json:"issues"`
}

func vetCommand() *cli.Command {
	var params vetParams

	return &cli.Command{
		Name:    "vet",
		Summary: "Check declaration files and overrides",
		Description: `Check argument declaration files without resolving a set.

Reported issues: parse failures, arguments declared more than once
(across all files), declarations missing their doc comment, defaults
that fail to evaluate, overrides naming undeclared arguments, and
flag implication violations.

Exit code 2 when issues are found. Every issue is reported; the
duplicate check spans files, so vet sees problems a plain evaluation
would stop at.`,
		Usage: "gantry args vet [files...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Check the whole workspace",
				Command:     "gantry args vet",
			},
			{
				Description: "Check one file with explicit overrides",
				Command:     "gantry args vet args/audio.gni --overrides out/args.gn",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			cfg, err := params.WorkspaceConfig.Load()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				params.ArgSetConfig.ArgFiles = args
			}

			files, err := params.ArgSetConfig.DeclarationFiles(cfg)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no declaration files found (pass files or configure fragment roots)")
			}
			sources, err := cli.ReadSources(cfg, files)
			if err != nil {
				return err
			}
			options, err := params.ArgSetConfig.Options(cfg)
			if err != nil {
				return err
			}

			issues := buildargs.Vet(sources, options)

			if done, err := params.EmitJSON(vetResult{Checked: len(sources), Issues: issues}); done {
				if err != nil {
					return err
				}
				if len(issues) > 0 {
					return &cli.ExitError{Code: 2}
				}
				return nil
			}
			return cli.ReportIssues(issues)
		},
	}
}
