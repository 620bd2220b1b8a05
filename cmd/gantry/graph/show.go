// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/buildgraph"
)

// showParams holds the parameters for graph show.
type showParams struct {
	cli.WorkspaceConfig
	cli.ArgSetConfig
	cli.JSONOutput
}

// showResult is the JSON output for graph show: the target plus the
// labels that depend on it.
type showResult struct {
	*buildgraph.Target
	Dependents []buildgraph.Label `json:"dependents"`
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show one target",
		Description: `Print one target's interpreted definition: kind, declaration site,
sources, dependencies, and kind-specific fields, plus the targets
that depend on it.

The label must be absolute ("//dir/path:name"; ":name" addresses the
tree root). The whole workspace graph loads so reverse dependencies
are complete.`,
		Usage: "gantry graph show <label> [flags]",
		Examples: []cli.Example{
			{
				Description: "Inspect a component and its dependents",
				Command:     "gantry graph show //media/audio:mixer",
			},
			{
				Description: "Extract a target record for tooling",
				Command:     "gantry graph show //rust/bindings:sys --json",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one target label is required")
			}
			label, err := buildgraph.ParseLabel(args[0], "")
			if err != nil {
				return err
			}

			cfg, err := params.WorkspaceConfig.Load()
			if err != nil {
				return err
			}
			graph, err := loadGraph(cfg, &params.ArgSetConfig, nil)
			if err != nil {
				return err
			}

			target, ok := graph.Target(label)
			if !ok {
				return fmt.Errorf("no target %s in the graph", label)
			}
			dependents := graph.ReverseDeps(label)
			dependentLabels := make([]buildgraph.Label, 0, len(dependents))
			for _, dependent := range dependents {
				dependentLabels = append(dependentLabels, dependent.Label)
			}

			if done, err := params.EmitJSON(showResult{
				Target:     target,
				Dependents: dependentLabels,
			}); done {
				return err
			}

			printTarget(target, dependentLabels)
			return nil
		},
	}
}

// printTarget renders the human-readable target detail.
func printTarget(target *buildgraph.Target, dependents []buildgraph.Label) {
	fmt.Printf("%s (%s)\n", target.Label, target.Kind)
	fmt.Printf("  declared: %s\n", target.Pos)

	printList := func(header string, values []string) {
		if len(values) == 0 {
			return
		}
		fmt.Printf("  %s:\n", header)
		for _, value := range values {
			fmt.Printf("    %s\n", value)
		}
	}

	printList("sources", target.Sources)
	printList("defines", target.Defines)
	if target.Header != "" {
		fmt.Printf("  header: %s\n", target.Header)
	}
	if target.WrapStaticFns {
		fmt.Println("  wrap_static_fns: true")
	}
	if target.CrateRoot != "" {
		fmt.Printf("  crate_root: %s\n", target.CrateRoot)
	}
	if target.AllowUnsafe {
		fmt.Println("  allow_unsafe: true")
	}
	if target.BuildNativeRustUnitTests {
		fmt.Println("  build_native_rust_unit_tests: true")
	}

	if len(target.Deps) > 0 {
		fmt.Println("  deps:")
		for _, dep := range target.Deps {
			fmt.Printf("    %s\n", dep)
		}
	}
	if len(dependents) > 0 {
		fmt.Println("  dependents:")
		for _, dependent := range dependents {
			fmt.Printf("    %s\n", dependent)
		}
	}
}
