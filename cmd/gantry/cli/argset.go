// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/gantry-build/gantry/lib/buildargs"
	"github.com/gantry-build/gantry/lib/config"
	"github.com/gantry-build/gantry/lib/gn"
)

// ArgSetConfig holds the shared flags for commands that resolve the
// workspace's build-argument set: the args group itself, and the
// graph commands that evaluate fragments against resolved arguments.
//
// Declaration files come from --args (repeatable), or, when no --args
// is given, from the fragment roots: every .gni file under them. The
// overrides file defaults to <out>/args.gn when that file exists.
type ArgSetConfig struct {
	ArgFiles  []string
	Overrides string
	Sets      []string
}

// AddFlags registers --args, --overrides, and --set on the given flag
// set. --set uses array semantics — repeat the flag, one name=value
// per occurrence — so commas inside GN list values stay intact.
func (c *ArgSetConfig) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringArrayVar(&c.ArgFiles, "args", nil, "argument declaration file (repeatable; default: every .gni under the fragment roots)")
	flagSet.StringVar(&c.Overrides, "overrides", "", "overrides file applied over declared defaults (default: <out>/args.gn when present)")
	flagSet.StringArrayVar(&c.Sets, "set", nil, "name=value override applied last (repeatable)")
}

// DeclarationFiles returns the declaration files to evaluate: the
// --args files when given, otherwise every .gni file under the
// workspace fragment roots.
func (c *ArgSetConfig) DeclarationFiles(cfg *config.Config) ([]string, error) {
	if len(c.ArgFiles) > 0 {
		return c.ArgFiles, nil
	}
	return FindWorkspaceFiles(cfg, cfg.Paths.FragmentRoots, func(name string) bool {
		return strings.HasSuffix(name, ".gni")
	})
}

// Options assembles the evaluation options: the import loader rooted
// at the checkout, the overrides file content, and --set literals.
func (c *ArgSetConfig) Options(cfg *config.Config) (buildargs.Options, error) {
	options := buildargs.Options{
		Loader: &gn.FileLoader{Root: cfg.Resolve(cfg.Paths.Checkout)},
		Sets:   c.Sets,
	}

	overridesPath := c.Overrides
	if overridesPath == "" {
		candidate := filepath.Join(cfg.Resolve(cfg.Paths.Out), "args.gn")
		if _, err := os.Stat(candidate); err == nil {
			overridesPath = candidate
		}
	}
	if overridesPath != "" {
		content, err := os.ReadFile(overridesPath)
		if err != nil {
			return buildargs.Options{}, fmt.Errorf("reading overrides: %w", err)
		}
		options.Overrides = content
		options.OverridesName = WorkspaceRelative(cfg, overridesPath)
	}

	return options, nil
}

// ResolveSet evaluates the argument set from the configured flags.
func (c *ArgSetConfig) ResolveSet(cfg *config.Config) (*buildargs.Set, error) {
	files, err := c.DeclarationFiles(cfg)
	if err != nil {
		return nil, err
	}
	sources, err := ReadSources(cfg, files)
	if err != nil {
		return nil, err
	}
	options, err := c.Options(cfg)
	if err != nil {
		return nil, err
	}
	return buildargs.Evaluate(sources, options)
}

// ReadSources reads the given files into named sources, with
// workspace-relative names for diagnostics.
func ReadSources(cfg *config.Config, paths []string) ([]buildargs.NamedSource, error) {
	sources := make([]buildargs.NamedSource, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, buildargs.NamedSource{
			Name:   WorkspaceRelative(cfg, path),
			Source: content,
		})
	}
	return sources, nil
}
