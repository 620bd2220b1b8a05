// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/buildargs"
	"github.com/gantry-build/gantry/lib/buildgraph"
	"github.com/gantry-build/gantry/lib/config"
	"github.com/gantry-build/gantry/lib/digest"
	"github.com/gantry-build/gantry/lib/gn"
)

// collectFragments reads build fragments: the given files, or every
// BUILD.gn under the workspace fragment roots. Fragment paths are
// workspace-relative so labels and diagnostics match across machines.
func collectFragments(cfg *config.Config, paths []string) ([]*buildgraph.Fragment, error) {
	files := paths
	if len(files) == 0 {
		var err error
		files, err = cli.FindWorkspaceFiles(cfg, cfg.Paths.FragmentRoots, func(name string) bool {
			return name == "BUILD.gn"
		})
		if err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no build fragments found (pass files or configure fragment roots)")
	}

	fragments := make([]*buildgraph.Fragment, 0, len(files))
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, &buildgraph.Fragment{
			Path:   cli.WorkspaceRelative(cfg, file),
			Source: source,
		})
	}
	return fragments, nil
}

// fragmentOptions builds the load options every graph command shares:
// the resolved argument scope and the import loader rooted at the
// checkout.
func fragmentOptions(cfg *config.Config, set *buildargs.Set) buildgraph.LoadOptions {
	return buildgraph.LoadOptions{
		Arguments: set.Scope(),
		Loader:    &gn.FileLoader{Root: cfg.Resolve(cfg.Paths.Checkout)},
	}
}

// loadGraph resolves the argument set and loads fragments into a
// graph: the whole pipeline behind plan, env, show, find, and browse.
func loadGraph(cfg *config.Config, argSet *cli.ArgSetConfig, paths []string) (*buildgraph.Graph, error) {
	set, err := argSet.ResolveSet(cfg)
	if err != nil {
		return nil, err
	}
	fragments, err := collectFragments(cfg, paths)
	if err != nil {
		return nil, err
	}
	return buildgraph.Load(fragments, fragmentOptions(cfg, set))
}

// argsFingerprint hashes the resolved argument values, sorted by
// name. A fragment's vet result depends on the argument scope as much
// as on its own bytes, so cached results key on this fingerprint too:
// changing an argument value invalidates without touching any file.
func argsFingerprint(set *buildargs.Set) digest.Digest {
	docs := set.Docs()
	slices.SortFunc(docs, func(a, b buildargs.Doc) int {
		return strings.Compare(a.Name, b.Name)
	})
	var builder strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&builder, "%s = %s\n", doc.Name, doc.Current)
	}
	return digest.HashSource([]byte(builder.String()))
}
