// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"context"
	"strings"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/buildgraph"
)

// vetParams holds the parameters for graph vet.
type vetParams struct {
	cli.WorkspaceConfig
	cli.ArgSetConfig
	cli.JSONOutput
	NoCache bool `flag:"no-cache" desc:"recheck every fragment, bypassing the vet result cache"`
}

// vetResult is the JSON output for graph vet.
type vetResult struct {
	Fragments int      `json:"fragments"`
	Cached    int      `json:"cached"`
	Issues    []string `json:"issues"`
}

func vetCommand() *cli.Command {
	var params vetParams

	return &cli.Command{
		Name:    "vet",
		Summary: "Check build fragments and the whole graph",
		Description: `Check each fragment in isolation — syntax, unknown target fields,
field types, label syntax — then, when every fragment is clean, load
the whole set and check the cross-fragment properties: duplicate
labels, unresolved dependencies, dependency cycles.

Per-fragment results cache by content digest and argument
fingerprint, so an unchanged fragment under unchanged arguments
rechecks for free. Exit code 2 when issues are found.`,
		Usage: "gantry graph vet [fragments...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Check the whole workspace",
				Command:     "gantry graph vet",
			},
			{
				Description: "Check one fragment under an argument override",
				Command:     "gantry graph vet media/audio/BUILD.gn --set enable_audio=true",
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
			fragments, err := collectFragments(cfg, args)
			if err != nil {
				return err
			}
			options := fragmentOptions(cfg, set)

			ctx := context.Background()
			logger := cli.NewCommandLogger().With("command", "graph/vet", "fragments", len(fragments))
			cache := cli.OpenVetCache(ctx, cfg, params.NoCache, logger)
			defer cache.Close()

			// The argument fingerprint is part of the cache kind: a
			// fragment vets differently under different argument values.
			cacheKind := "fragment:" + argsFingerprint(set).Short()

			var issues []string
			cached := 0
			for _, fragment := range fragments {
				// The fragment path is part of the cache key: labels
				// derive from the fragment's directory, so identical
				// bytes at two paths are different fragments.
				keyed := append([]byte(fragment.Path+"\x00"), fragment.Source...)
				fragmentIssues, hit, err := cache.Issues(ctx, cacheKind, fragment.Path, keyed, func() []string {
					return buildgraph.VetFragment(fragment, options)
				})
				if err != nil {
					return err
				}
				if hit {
					cached++
				}
				issues = append(issues, fragmentIssues...)
			}

			// Cross-fragment checks only make sense on fragments that
			// passed alone; a parse failure would drown the set in
			// follow-on noise.
			if len(issues) == 0 {
				issues = wholeGraphIssues(fragments, options)
			}

			if done, err := params.EmitJSON(vetResult{
				Fragments: len(fragments),
				Cached:    cached,
				Issues:    issues,
			}); done {
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

// wholeGraphIssues loads the full fragment set and reports
// cross-fragment problems: duplicate labels, unresolved dependencies,
// cycles. Joined errors split back into one issue per line.
func wholeGraphIssues(fragments []*buildgraph.Fragment, options buildgraph.LoadOptions) []string {
	graph, err := buildgraph.Load(fragments, options)
	if err != nil {
		return strings.Split(err.Error(), "\n")
	}
	if _, err := graph.Plan(); err != nil {
		return []string{err.Error()}
	}
	return nil
}
