// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/config"
)

// configTemplate is the starter gantry.yaml. Every value matches the
// built-in defaults, so a fresh workspace behaves identically before
// and after editing nothing.
const configTemplate = `# Gantry workspace configuration. Relative paths resolve against this
# file's directory. GANTRY_ENV overrides the environment field.
environment: local

paths:
  # Source checkout root; //-prefixed paths resolve against it.
  checkout: .
  # Build output root.
  out: out
  # Generated-source root; bindings-generator output lands under it.
  gen: out/gen
  # Directories scanned for build fragments.
  fragment_roots:
    - .
  # Directories manifest includes resolve against, in order.
  manifest_roots:
    - .

test:
  # External runner binary that launch-plan argv targets.
  runner: gantry-run
  # Default realm tests launch into.
  realm: testing
  # Per-test artifact directories land under this root.
  artifact_root: out/test-artifacts
  # Per-test coverage output lands under this root.
  coverage_root: out/coverage

vet:
  # SQLite database caching per-file vet results.
  cache_path: out/.gantry/vet.db

credential:
  # age X25519 recipients credentials seal to. Empty disables sealing.
  recipients: []
  # Directory holding sealed credential files.
  store: .gantry/credentials

# Per-environment overrides merge over the base configuration:
#
# ci:
#   vet:
#     cache_path: /cache/gantry/vet.db
`

// initParams holds the parameters for workspace init.
type initParams struct {
	Force bool `flag:"force" desc:"overwrite an existing configuration file"`
}

func initCommand() *cli.Command {
	var params initParams

	return &cli.Command{
		Name:    "init",
		Summary: "Write a starter configuration",
		Description: `Write a commented gantry.yaml into the given directory (default:
the current one) and create the output directories it names. The
template spells out the built-in defaults, so the file documents
itself.`,
		Usage: "gantry workspace init [dir] [flags]",
		Examples: []cli.Example{
			{
				Description: "Initialize the current directory",
				Command:     "gantry workspace init",
			},
			{
				Description: "Re-initialize, discarding local edits",
				Command:     "gantry workspace init --force",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("at most one directory is expected")
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			path := filepath.Join(dir, config.ConfigFileName)
			if _, err := os.Stat(path); err == nil && !params.Force {
				return fmt.Errorf("%s already exists (pass --force to overwrite)", path)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
				return err
			}

			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			if err := cfg.EnsurePaths(); err != nil {
				return err
			}

			fmt.Printf("initialized %s\n", path)
			for _, created := range []string{
				cfg.Paths.Out,
				cfg.Paths.Gen,
				cfg.Test.ArtifactRoot,
				cfg.Test.CoverageRoot,
			} {
				fmt.Printf("  %s/\n", created)
			}
			return nil
		},
	}
}
