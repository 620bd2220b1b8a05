// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package args

import (
	"fmt"
	"strings"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/gn"
)

// formatParams holds the parameters for args format.
type formatParams struct {
	cli.WorkspaceConfig
	Write bool `flag:"write,w" desc:"rewrite non-canonical files in place"`
	List  bool `flag:"list,l" desc:"list non-canonical files instead of printing content"`
}

func formatCommand() *cli.Command {
	var params formatParams

	return &cli.Command{
		Name:    "format",
		Summary: "Format GN files canonically",
		Description: `Render GN files in canonical form: two-space indents, normalized
operator spacing, one element per line in multi-element lists, sorted
source and dependency lists, preserved comments.

Formats the given files; without arguments, every .gni file under the
workspace fragment roots. Any GN file is accepted, so explicit
BUILD.gn fragments format too.

By default the canonical form prints to stdout. --write rewrites
changed files in place; --list prints the names of non-canonical
files and exits 1, for use as a CI check.`,
		Usage: "gantry args format [files...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Rewrite every declaration file in place",
				Command:     "gantry args format --write",
			},
			{
				Description: "Fail CI when files are not canonical",
				Command:     "gantry args format --list",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			cfg, err := params.WorkspaceConfig.Load()
			if err != nil {
				return err
			}

			files := args
			if len(files) == 0 {
				files, err = cli.FindWorkspaceFiles(cfg, cfg.Paths.FragmentRoots, func(name string) bool {
					return strings.HasSuffix(name, ".gni")
				})
				if err != nil {
					return err
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("no files to format (pass files or configure fragment roots)")
			}

			return cli.FormatFiles(files, func(path string, source []byte) ([]byte, bool, error) {
				return gn.Canonical(cli.WorkspaceRelative(cfg, path), source)
			}, params.Write, params.List)
		},
	}
}
