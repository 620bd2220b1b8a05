// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/buildgraph"
	"github.com/gantry-build/gantry/lib/graphui"
)

// findParams holds the parameters for graph find.
type findParams struct {
	cli.WorkspaceConfig
	cli.ArgSetConfig
	cli.JSONOutput

	// Limit caps the number of reported matches.
	Limit int `flag:"limit,n" desc:"maximum number of matches to print"`
}

// findMatch is one fuzzy match against a target label.
type findMatch struct {
	Label buildgraph.Label `json:"label"`
	Kind  buildgraph.Kind  `json:"kind"`
	Score int              `json:"score"`
}

func findCommand() *cli.Command {
	params := findParams{Limit: 20}

	return &cli.Command{
		Name:    "find",
		Summary: "Fuzzy-search target labels",
		Description: `Match a pattern against every target label in the workspace graph
using the same fuzzy algorithm as the interactive browser. Matches
print best-first.`,
		Usage: "gantry graph find <pattern> [flags]",
		Examples: []cli.Example{
			{
				Description: "Find audio-related targets",
				Command:     "gantry graph find audio",
			},
			{
				Description: "Top three matches, as JSON",
				Command:     "gantry graph find bind --limit 3 --json",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one search pattern is required")
			}
			pattern := []rune(args[0])

			cfg, err := params.WorkspaceConfig.Load()
			if err != nil {
				return err
			}
			graph, err := loadGraph(cfg, &params.ArgSetConfig, nil)
			if err != nil {
				return err
			}

			matches := findTargets(graph, pattern, params.Limit)
			if done, err := params.EmitJSON(matches); done {
				return err
			}

			if len(matches) == 0 {
				fmt.Println("No targets match.")
				return nil
			}
			writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "LABEL\tKIND\tSCORE")
			for _, match := range matches {
				fmt.Fprintf(writer, "%s\t%s\t%d\n", match.Label, match.Kind, match.Score)
			}
			return writer.Flush()
		},
	}
}

// findTargets ranks the graph's labels against the pattern. Ties break
// toward the lexically smaller label so results are stable.
func findTargets(graph *buildgraph.Graph, pattern []rune, limit int) []findMatch {
	slab := graphui.NewSlab()
	var matches []findMatch
	for _, label := range graph.Labels() {
		result := graphui.FuzzyMatch(label.String(), pattern, slab)
		if result.Score == 0 {
			continue
		}
		target, _ := graph.Target(label)
		matches = append(matches, findMatch{
			Label: label,
			Kind:  target.Kind,
			Score: result.Score,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Label.String() < matches[j].Label.String()
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
