// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/graphui"
)

// browseParams holds the parameters for graph browse.
type browseParams struct {
	cli.WorkspaceConfig
	cli.ArgSetConfig
}

func browseCommand() *cli.Command {
	var params browseParams

	return &cli.Command{
		Name:    "browse",
		Summary: "Browse the graph interactively",
		Description: `Open a full-screen browser over the workspace graph: fuzzy-filter
target labels, inspect a target's sources and dependencies, and jump
along dependency edges. Key bindings are shown in the bottom bar.`,
		Usage: "gantry graph browse [flags]",
		Examples: []cli.Example{
			{
				Description: "Browse with an argument override applied",
				Command:     "gantry graph browse --set \"enable_audio = true\"",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			cfg, err := params.WorkspaceConfig.Load()
			if err != nil {
				return err
			}
			graph, err := loadGraph(cfg, &params.ArgSetConfig, nil)
			if err != nil {
				return err
			}

			model := graphui.NewModel(graph)
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
			_, err = program.Run()
			return err
		},
	}
}
