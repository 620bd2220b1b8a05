// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/config"
	"github.com/gantry-build/gantry/lib/version"
	"github.com/gantry-build/gantry/lib/vetcache"
)

// infoParams holds the parameters for workspace info.
type infoParams struct {
	cli.WorkspaceConfig
	cli.JSONOutput
}

// workspaceInfo is the resolved-configuration view. Paths are
// absolute, the way commands actually use them.
type workspaceInfo struct {
	Version         string          `json:"version"`
	Root            string          `json:"root"`
	Environment     string          `json:"environment"`
	Checkout        string          `json:"checkout"`
	Out             string          `json:"out"`
	Gen             string          `json:"gen"`
	FragmentRoots   []string        `json:"fragment_roots"`
	ManifestRoots   []string        `json:"manifest_roots"`
	TestRunner      string          `json:"test_runner"`
	TestRealm       string          `json:"test_realm"`
	ArtifactRoot    string          `json:"artifact_root"`
	CoverageRoot    string          `json:"coverage_root"`
	VetCachePath    string          `json:"vet_cache_path"`
	VetCache        *vetcache.Stats `json:"vet_cache,omitempty"`
	CredentialStore string          `json:"credential_store"`
	Recipients      int             `json:"recipients"`
}

func infoCommand() *cli.Command {
	var params infoParams

	return &cli.Command{
		Name:    "info",
		Summary: "Show the resolved configuration",
		Description: `Print the workspace configuration as the tool resolved it: absolute
paths, the selected environment, defaults filled in, and vet cache
statistics when the cache database exists.`,
		Usage: "gantry workspace info [flags]",
		Examples: []cli.Example{
			{
				Description: "Check what a CI run would resolve",
				Command:     "GANTRY_ENV=ci gantry workspace info --json",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			cfg, err := params.WorkspaceConfig.Require()
			if err != nil {
				return err
			}

			info := workspaceInfo{
				Version:         version.String(),
				Root:            cfg.Root,
				Environment:     string(cfg.Environment),
				Checkout:        cfg.Resolve(cfg.Paths.Checkout),
				Out:             cfg.Resolve(cfg.Paths.Out),
				Gen:             cfg.Resolve(cfg.Paths.Gen),
				TestRunner:      cfg.Test.Runner,
				TestRealm:       cfg.Test.Realm,
				ArtifactRoot:    cfg.Resolve(cfg.Test.ArtifactRoot),
				CoverageRoot:    cfg.Resolve(cfg.Test.CoverageRoot),
				VetCachePath:    cfg.Resolve(cfg.Vet.CachePath),
				CredentialStore: cfg.Resolve(cfg.Credential.Store),
				Recipients:      len(cfg.Credential.Recipients),
			}
			for _, root := range cfg.Paths.FragmentRoots {
				info.FragmentRoots = append(info.FragmentRoots, cfg.Resolve(root))
			}
			for _, root := range cfg.Paths.ManifestRoots {
				info.ManifestRoots = append(info.ManifestRoots, cfg.Resolve(root))
			}
			info.VetCache = cacheStats(cfg)

			if done, err := params.EmitJSON(info); done {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			row := func(label, value string) {
				fmt.Fprintf(writer, "%s\t%s\n", label, value)
			}
			row("gantry:", info.Version)
			row("root:", info.Root)
			row("environment:", info.Environment)
			row("checkout:", info.Checkout)
			row("out:", info.Out)
			row("gen:", info.Gen)
			for _, root := range info.FragmentRoots {
				row("fragment root:", root)
			}
			for _, root := range info.ManifestRoots {
				row("manifest root:", root)
			}
			row("test runner:", info.TestRunner)
			row("test realm:", info.TestRealm)
			row("artifact root:", info.ArtifactRoot)
			row("coverage root:", info.CoverageRoot)
			row("vet cache:", info.VetCachePath)
			if info.VetCache != nil {
				row("", fmt.Sprintf("%d entries, %d bytes", info.VetCache.Entries, info.VetCache.SizeBytes))
			}
			row("credential store:", info.CredentialStore)
			row("recipients:", fmt.Sprintf("%d", info.Recipients))
			return writer.Flush()
		},
	}
}

// cacheStats reads vet cache statistics when the database exists. Any
// failure reads as "no cache" — info never blocks on a corrupt cache.
func cacheStats(cfg *config.Config) *vetcache.Stats {
	path := cfg.Resolve(cfg.Vet.CachePath)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	cache, err := vetcache.Open(path, nil)
	if err != nil {
		return nil
	}
	defer cache.Close()
	stats, err := cache.Stats(context.Background())
	if err != nil {
		return nil
	}
	return &stats
}
