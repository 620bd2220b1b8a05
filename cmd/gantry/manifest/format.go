// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	libmanifest "github.com/gantry-build/gantry/lib/manifest"
)

// formatParams holds the parameters for manifest format.
type formatParams struct {
	cli.WorkspaceConfig
	Write bool `flag:"write,w" desc:"rewrite non-canonical files in place"`
	List  bool `flag:"list,l" desc:"list non-canonical files instead of printing content"`
}

func formatCommand() *cli.Command {
	var params formatParams

	return &cli.Command{
		Name:    "format",
		Summary: "Format manifest files canonically",
		Description: `Render manifest files in canonical form: fixed key order, two-space
indent, children sorted by name, use and offer entries in authored
order, sorted scope keys.

Canonicalization strips comments and trailing commas — the canonical
form is plain JSON. Hand-annotated manifests that should keep their
comments belong in review, not through --write.

Formats the given files; without arguments, every .gantry file under
the workspace manifest roots.

By default the canonical form prints to stdout. --write rewrites
changed files in place; --list prints the names of non-canonical
files and exits 1, for use as a CI check.`,
		Usage: "gantry manifest format [files...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Print the canonical form",
				Command:     "gantry manifest format manifests/audio.gantry",
			},
			{
				Description: "Fail CI when manifests are not canonical",
				Command:     "gantry manifest format --list",
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
				files, err = cli.FindWorkspaceFiles(cfg, cfg.Paths.ManifestRoots, func(name string) bool {
					return strings.HasSuffix(name, ".gantry")
				})
				if err != nil {
					return err
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("no files to format (pass files or configure manifest roots)")
			}

			return cli.FormatFiles(files, func(path string, source []byte) ([]byte, bool, error) {
				doc, err := libmanifest.Parse(source)
				if err != nil {
					return nil, false, fmt.Errorf("%s: %w", path, err)
				}
				formatted, err := doc.Serialize()
				if err != nil {
					return nil, false, fmt.Errorf("%s: %w", path, err)
				}
				return formatted, bytes.Equal(formatted, source), nil
			}, params.Write, params.List)
		},
	}
}
