// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/gantry-build/gantry/lib/config"
)

// WorkspaceConfig holds the shared --config flag for commands that
// read workspace configuration.
//
// Resolution order: --config, then the GANTRY_CONFIG environment
// variable, then an upward search for gantry.yaml from the working
// directory. When nothing is found the built-in defaults apply, so
// commands given explicit file arguments work outside a workspace.
//
// Usage pattern:
//
//	type vetParams struct {
//	    cli.WorkspaceConfig
//	    ...
//	}
//
//	// In Run:
//	cfg, err := params.WorkspaceConfig.Load()
type WorkspaceConfig struct {
	ConfigFile string
}

// AddFlags registers --config on the given flag set.
func (c *WorkspaceConfig) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.ConfigFile, "config", "", "workspace configuration file (default: GANTRY_CONFIG, then gantry.yaml found upward)")
}

// Load resolves the workspace configuration. A missing configuration
// file is not an error — the defaults come back with an empty Root —
// but an unreadable or malformed one is.
func (c *WorkspaceConfig) Load() (*config.Config, error) {
	if c.ConfigFile != "" {
		return config.LoadFile(c.ConfigFile)
	}
	if path := os.Getenv("GANTRY_CONFIG"); path != "" {
		return config.LoadFile(path)
	}
	workingDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, err := config.Discover(workingDir)
	if err != nil {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

// Require resolves the workspace configuration and fails when no
// configuration file was found. For commands that are meaningless
// without a real workspace (workspace info, credential storage).
func (c *WorkspaceConfig) Require() (*config.Config, error) {
	cfg, err := c.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Root == "" {
		return nil, fmt.Errorf("no %s found; run 'gantry workspace init' or set GANTRY_CONFIG", config.ConfigFileName)
	}
	return cfg, nil
}

// WorkspaceRelative rewrites path relative to the checkout root, in
// slash form, for diagnostics and fragment labels. Paths outside the
// checkout stay as given.
func WorkspaceRelative(cfg *config.Config, path string) string {
	cleaned := filepath.ToSlash(filepath.Clean(path))
	absCheckout, err := filepath.Abs(cfg.Resolve(cfg.Paths.Checkout))
	if err != nil {
		return cleaned
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return cleaned
	}
	rel, err := filepath.Rel(absCheckout, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return cleaned
	}
	return filepath.ToSlash(rel)
}

// FindWorkspaceFiles walks the given workspace roots (fragment roots,
// manifest roots) and returns every file whose basename the match
// function accepts, sorted and deduplicated. Hidden directories and
// the build output trees are skipped, so checked-in sources never mix
// with generated ones.
func FindWorkspaceFiles(cfg *config.Config, roots []string, match func(name string) bool) ([]string, error) {
	skip := make(map[string]bool)
	for _, dir := range []string{cfg.Resolve(cfg.Paths.Out), cfg.Resolve(cfg.Paths.Gen)} {
		if abs, err := filepath.Abs(dir); err == nil {
			skip[abs] = true
		}
	}

	var found []string
	seen := make(map[string]bool)
	for _, root := range roots {
		resolved := cfg.Resolve(root)
		err := filepath.WalkDir(resolved, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				if path != resolved && strings.HasPrefix(entry.Name(), ".") {
					return fs.SkipDir
				}
				if abs, err := filepath.Abs(path); err == nil && skip[abs] {
					return fs.SkipDir
				}
				return nil
			}
			if !match(entry.Name()) {
				return nil
			}
			if abs, err := filepath.Abs(path); err == nil {
				if seen[abs] {
					return nil
				}
				seen[abs] = true
			}
			found = append(found, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", resolved, err)
		}
	}
	slices.Sort(found)
	return found, nil
}
